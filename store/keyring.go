package store

import (
	"errors"

	"github.com/samber/mo"
	"github.com/vidloop/vidloop/constant"
	"github.com/zalando/go-keyring"
)

// Keyring keeps entries in the operating system keyring.
type Keyring struct {
	service string
}

// NewKeyring returns a keyring store scoped to the application.
func NewKeyring() *Keyring {
	return &Keyring{service: constant.App}
}

func (k *Keyring) Get(name string) (mo.Option[string], error) {
	v, err := keyring.Get(k.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), err
	}
	return mo.Some(v), nil
}

func (k *Keyring) Set(name, value string) error {
	return keyring.Set(k.service, name, value)
}

func (k *Keyring) Remove(name string) error {
	err := keyring.Delete(k.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
