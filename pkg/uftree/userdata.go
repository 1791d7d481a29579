package uftree

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const maxUserDataSize = 1 << 30

// SetUserData attaches an application value that is persisted after the
// tree body by Write and restored by Read. OpenFDA does not load it.
func (t *Tree) SetUserData(v interface{}) error {
	if v == nil {
		t.userData = nil
		return nil
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode user data")
	}
	t.userData = b
	return nil
}

// UserData decodes the attached value into v.
func (t *Tree) UserData(v interface{}) error {
	if len(t.userData) == 0 {
		return ErrNoUserData
	}
	return errors.Wrap(msgpack.Unmarshal(t.userData, v), "failed to decode user data")
}

func (t *Tree) HasUserData() bool {
	return len(t.userData) > 0
}
