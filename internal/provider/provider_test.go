package provider

import (
	"context"
	"testing"

	"sublify/internal/models"
)

type fakeBackend struct{ name string }

func (f *fakeBackend) Name() string                           { return f.name }
func (f *fakeBackend) Authenticate(context.Context) error     { return nil }
func (f *fakeBackend) Download(context.Context, Candidate) ([]byte, error) {
	return nil, nil
}
func (f *fakeBackend) Search(context.Context, models.MediaFile, models.LanguageSet) ([]Candidate, error) {
	return nil, nil
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	Register("fake-for-test", func(opts Options) (Provider, error) {
		return &fakeBackend{name: "fake-for-test"}, nil
	})

	p, err := New("fake-for-test", Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name() != "fake-for-test" {
		t.Errorf("Name() = %q, want fake-for-test", p.Name())
	}
}

func TestRegistry_UnknownBackend(t *testing.T) {
	_, err := New("nonexistent", Options{})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	factory := func(opts Options) (Provider, error) { return &fakeBackend{}, nil }
	Register("dup-for-test", factory)
	Register("dup-for-test", factory)
}

func TestCredentials_IsZero(t *testing.T) {
	if !(Credentials{}).IsZero() {
		t.Error("empty credentials should be zero")
	}
	if (Credentials{Username: "u"}).IsZero() {
		t.Error("credentials with username should not be zero")
	}
	if (Credentials{APIKey: "k"}).IsZero() {
		t.Error("credentials with api key should not be zero")
	}
}
