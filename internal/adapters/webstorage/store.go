//go:build js && wasm

// Package webstorage keeps the access token in the browser's localStorage.
package webstorage

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

type Store struct {
	key string
}

func NewStore(key string) *Store {
	if key == "" {
		key = tokenstore.DefaultKey
	}
	return &Store{key: key}
}

func storage() (js.Value, error) {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return js.Value{}, tokenstore.ErrUnavailable
	}
	return ls, nil
}

// call invokes a Storage method, turning a thrown exception (quota, disabled storage)
// into ErrUnavailable.
func call(method string, args ...any) (v js.Value, err error) {
	ls, err := storage()
	if err != nil {
		return js.Value{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", tokenstore.ErrUnavailable, r)
		}
	}()
	return ls.Call(method, args...), nil
}

func (s *Store) Load(_ context.Context) (string, bool, error) {
	v, err := call("getItem", s.key)
	if err != nil {
		return "", false, err
	}
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

func (s *Store) Save(_ context.Context, token string) error {
	_, err := call("setItem", s.key, token)
	return err
}

func (s *Store) Clear(_ context.Context) error {
	_, err := call("removeItem", s.key)
	return err
}
