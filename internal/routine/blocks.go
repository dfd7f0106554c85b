package routine

import (
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrEmptyBlock = errors.New("block must contain at least one entry")

// EntrySpec is one exercise slot of a submitted block. A zero ExerciseID is
// an unresolved placeholder.
type EntrySpec struct {
	ExerciseID primitive.ObjectID
	Sets       int
	Reps       int
}

// BlockSpec is one block of a submitted composition.
type BlockSpec struct {
	Sets        int
	RestSeconds int
	Entries     []EntrySpec
}

// FromSpecs builds a session from an externally supplied block list, for
// callers that edited the composition elsewhere and submit it whole. Values
// are clamped into the editing bounds; block type is derived from the entry
// count, never trusted from the caller.
func FromSpecs(specs []BlockSpec) (*Composer, error) {
	c := &Composer{}
	for _, spec := range specs {
		if len(spec.Entries) == 0 {
			return nil, ErrEmptyBlock
		}
		b := &Block{
			ID:          uuid.NewString(),
			Type:        BlockSingle,
			Sets:        clampMin(spec.Sets, MinSets),
			RestSeconds: clampRest(spec.RestSeconds),
		}
		if len(spec.Entries) > 1 {
			b.Type = BlockSuperset
		}
		for _, e := range spec.Entries {
			b.Entries = append(b.Entries, Entry{
				ExerciseID: e.ExerciseID,
				Sets:       clampMin(e.Sets, MinSets),
				Reps:       clampMin(e.Reps, MinReps),
			})
		}
		c.blocks = append(c.blocks, b)
	}
	return c, nil
}

func clampRest(v int) int {
	if v < MinRestSeconds {
		return MinRestSeconds
	}
	if v > MaxRestSeconds {
		return MaxRestSeconds
	}
	return v
}
