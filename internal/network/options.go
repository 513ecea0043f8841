package network

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Options is the open-ended configuration bag shared by trainers and loss
// builders.
//
// Every consumer decodes only the keys it recognizes and ignores the rest,
// so one bag can carry trainer knobs ("learning_rate", "epochs") next to
// loss-builder knobs ("weight_l2", "noise") without coordination between
// the two sides.
type Options map[string]any

// Decode fills out (a pointer to a struct with mapstructure tags) from the
// bag. Decoding is weakly typed: an int in the bag satisfies a float64
// field. Keys without a matching field are ignored; fields without a
// matching key keep their current value, which is how defaults work.
//
// Example:
//
//	cfg := sgdConfig{LearningRate: 0.1, Validate: 3}
//	if err := opts.Decode(&cfg); err != nil { ... }
func (o Options) Decode(out any) error {
	if len(o) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "building options decoder")
	}
	return errors.Wrap(dec.Decode(map[string]any(o)), "decoding options")
}

// Clone returns a shallow copy of the bag. A nil bag clones to an empty,
// writable one.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
