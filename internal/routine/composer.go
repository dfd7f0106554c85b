// Package routine implements the in-memory editing session for one routine:
// an ordered list of exercise blocks (single or superset) that is flattened
// back to the persisted row list on save.
package routine

import (
	"errors"
	"sync/atomic"

	"pulsefit/training-core/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrBlockNotFound      = errors.New("block not found in this session")
	ErrAlreadySuperset    = errors.New("block is already a superset")
	ErrEntryIndexRange    = errors.New("exercise entry index out of range")
	ErrLastEntry          = errors.New("cannot remove the last entry; remove the block instead")
	ErrSaveInFlight       = errors.New("a save is already in flight for this session")
	ErrExerciseUnselected = errors.New("exercise must be selected")
)

// Editing defaults and bounds.
const (
	DefaultSets        = 3
	DefaultReps        = 10
	DefaultRestSeconds = 90

	MinSets        = 1
	MinReps        = 1
	MinRestSeconds = 30
	MaxRestSeconds = 600
)

// BlockType distinguishes a one-exercise block from a superset.
type BlockType string

const (
	BlockSingle   BlockType = "single"
	BlockSuperset BlockType = "superset"
)

// Entry is one exercise slot inside a block. A zero ExerciseID marks the
// unselected placeholder seeded by ConvertToSuperset; placeholders are never
// persisted.
type Entry struct {
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Name       string             `json:"name"`
	ImageURL   string             `json:"imageUrl,omitempty"`
	Sets       int                `json:"sets"`
	Reps       int                `json:"reps"`
}

// IsPlaceholder reports whether the entry has not been resolved to a real
// exercise yet.
func (e Entry) IsPlaceholder() bool {
	return e.ExerciseID == primitive.NilObjectID
}

// Block groups one or more entries sharing a rest interval. Blocks exist
// only inside an editing session; their IDs are session-local and nothing
// about the grouping is persisted.
type Block struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	Sets        int       `json:"sets"`
	RestSeconds int       `json:"restSeconds"`
	Entries     []Entry   `json:"entries"`
}

// Composer is the editing session for one routine's content. All mutating
// operations are synchronous and apply to the in-memory block list; the only
// I/O point is the save performed by the owning service, which uses the
// BeginSave/EndSave guard to stay non-reentrant.
type Composer struct {
	blocks []*Block
	saving atomic.Bool
}

// New returns an empty session.
func New() *Composer {
	return &Composer{}
}

// FromDetail seeds a session from a persisted routine. Every row becomes its
// own single block: block grouping is never inferred from prior saves.
func FromDetail(detail *domain.RoutineDetail) *Composer {
	c := &Composer{}
	for _, row := range detail.Exercises {
		c.blocks = append(c.blocks, &Block{
			ID:          uuid.NewString(),
			Type:        BlockSingle,
			Sets:        row.Sets,
			RestSeconds: row.RestSeconds,
			Entries: []Entry{{
				ExerciseID: row.ExerciseID,
				Name:       row.ExerciseName,
				ImageURL:   row.ExerciseImageURL,
				Sets:       row.Sets,
				Reps:       row.Reps,
			}},
		})
	}
	return c
}

// Blocks returns a deep copy of the current block list in order.
func (c *Composer) Blocks() []Block {
	out := make([]Block, 0, len(c.blocks))
	for _, b := range c.blocks {
		copied := *b
		copied.Entries = append([]Entry(nil), b.Entries...)
		out = append(out, copied)
	}
	return out
}

// Len returns the number of blocks in the session.
func (c *Composer) Len() int {
	return len(c.blocks)
}

func (c *Composer) find(blockID string) (*Block, error) {
	for _, b := range c.blocks {
		if b.ID == blockID {
			return b, nil
		}
	}
	return nil, ErrBlockNotFound
}

// AddBlock appends a new single block for the exercise with default
// parameters and returns the session-local block ID.
func (c *Composer) AddBlock(exercise domain.Exercise) (string, error) {
	if exercise.ID == primitive.NilObjectID {
		return "", ErrExerciseUnselected
	}
	b := &Block{
		ID:          uuid.NewString(),
		Type:        BlockSingle,
		Sets:        DefaultSets,
		RestSeconds: DefaultRestSeconds,
		Entries: []Entry{{
			ExerciseID: exercise.ID,
			Name:       exercise.Name,
			ImageURL:   exercise.ImageURL,
			Sets:       DefaultSets,
			Reps:       DefaultReps,
		}},
	}
	c.blocks = append(c.blocks, b)
	return b.ID, nil
}

// ConvertToSuperset turns a single block into a superset by appending an
// unselected placeholder slot. The placeholder must be resolved through
// AddExercise before it can be persisted; Flatten drops it otherwise.
func (c *Composer) ConvertToSuperset(blockID string) error {
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	if b.Type == BlockSuperset {
		return ErrAlreadySuperset
	}
	b.Entries = append(b.Entries, Entry{
		Sets: b.Sets,
		Reps: DefaultReps,
	})
	b.Type = BlockSuperset
	return nil
}

// AddExercise resolves the block's first placeholder slot to the given
// exercise, or appends a new entry inheriting the block's sets if no
// placeholder remains.
func (c *Composer) AddExercise(blockID string, exercise domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return ErrExerciseUnselected
	}
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	for i := range b.Entries {
		if b.Entries[i].IsPlaceholder() {
			b.Entries[i].ExerciseID = exercise.ID
			b.Entries[i].Name = exercise.Name
			b.Entries[i].ImageURL = exercise.ImageURL
			return nil
		}
	}
	b.Entries = append(b.Entries, Entry{
		ExerciseID: exercise.ID,
		Name:       exercise.Name,
		ImageURL:   exercise.ImageURL,
		Sets:       b.Sets,
		Reps:       DefaultReps,
	})
	return nil
}

// RemoveEntry removes the entry at index. A superset reduced to one entry
// degrades back to a single block. The last entry of a block cannot be
// removed; delete the block.
func (c *Composer) RemoveEntry(blockID string, index int) error {
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(b.Entries) {
		return ErrEntryIndexRange
	}
	if len(b.Entries) == 1 {
		return ErrLastEntry
	}
	b.Entries = append(b.Entries[:index], b.Entries[index+1:]...)
	if b.Type == BlockSuperset && len(b.Entries) <= 1 {
		b.Type = BlockSingle
	}
	return nil
}

// RemoveBlock deletes the block and all its entries. Remaining blocks keep
// their positions; ordering is renumbered at save time.
func (c *Composer) RemoveBlock(blockID string) error {
	for i, b := range c.blocks {
		if b.ID == blockID {
			c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
			return nil
		}
	}
	return ErrBlockNotFound
}

// AdjustSets shifts the block's shared set count by delta, clamped to at
// least MinSets. Entry set counts follow the block.
func (c *Composer) AdjustSets(blockID string, delta int) error {
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	b.Sets = clampMin(b.Sets+delta, MinSets)
	for i := range b.Entries {
		b.Entries[i].Sets = b.Sets
	}
	return nil
}

// AdjustRest shifts the block's rest interval by delta seconds, clamped to
// [MinRestSeconds, MaxRestSeconds].
func (c *Composer) AdjustRest(blockID string, delta int) error {
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	b.RestSeconds = clampRest(b.RestSeconds + delta)
	return nil
}

// AdjustEntryReps shifts one entry's rep count by delta, clamped to at least
// MinReps.
func (c *Composer) AdjustEntryReps(blockID string, index, delta int) error {
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(b.Entries) {
		return ErrEntryIndexRange
	}
	b.Entries[index].Reps = clampMin(b.Entries[index].Reps+delta, MinReps)
	return nil
}

// AdjustEntrySets shifts one entry's set count by delta, clamped to at least
// MinSets. Used inside supersets where entries keep their own set counts.
func (c *Composer) AdjustEntrySets(blockID string, index, delta int) error {
	b, err := c.find(blockID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(b.Entries) {
		return ErrEntryIndexRange
	}
	b.Entries[index].Sets = clampMin(b.Entries[index].Sets+delta, MinSets)
	return nil
}

// Flatten emits the persisted row list: blocks in order, resolved entries
// only, each row inheriting the owning block's rest interval and receiving a
// freshly computed contiguous orderIndex starting at 0. Placeholder entries
// are silently dropped, and a superset that still lacks its second resolved
// exercise is not persisted at all: it never became a real superset.
func (c *Composer) Flatten() []domain.RoutineExercise {
	rows := make([]domain.RoutineExercise, 0, len(c.blocks))
	next := 0
	for _, b := range c.blocks {
		if b.Type == BlockSuperset && resolvedCount(b.Entries) < 2 {
			continue
		}
		for _, e := range b.Entries {
			if e.IsPlaceholder() {
				continue
			}
			rows = append(rows, domain.RoutineExercise{
				ExerciseID:  e.ExerciseID,
				Sets:        e.Sets,
				Reps:        e.Reps,
				RestSeconds: b.RestSeconds,
				OrderIndex:  next,
			})
			next++
		}
	}
	return rows
}

// BeginSave marks the session's save as in flight. It returns false if a
// save is already running; the caller must not issue a second one.
func (c *Composer) BeginSave() bool {
	return c.saving.CompareAndSwap(false, true)
}

// EndSave clears the in-flight marker.
func (c *Composer) EndSave() {
	c.saving.Store(false)
}

func resolvedCount(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if !e.IsPlaceholder() {
			n++
		}
	}
	return n
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
