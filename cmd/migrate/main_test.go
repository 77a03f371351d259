package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upErr   error
	steps   int
	forced  int
	version uint
	versErr error
	calls   []string
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.upErr
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	return nil
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, false, f.versErr
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.forced = version
	return nil
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name     string
		m        *fakeMigrator
		command  string
		args     []string
		wantErr  bool
		wantCall string
	}{
		{"Up", &fakeMigrator{}, "up", nil, false, "up"},
		{"Up without changes", &fakeMigrator{upErr: migrate.ErrNoChange}, "up", nil, false, "up"},
		{"Up fails", &fakeMigrator{upErr: errors.New("boom")}, "up", nil, true, "up"},
		{"Down", &fakeMigrator{}, "down", nil, false, "down"},
		{"Steps", &fakeMigrator{}, "steps", []string{"-1"}, false, "steps"},
		{"Steps without count", &fakeMigrator{}, "steps", nil, true, ""},
		{"Version", &fakeMigrator{version: 1}, "version", nil, false, "version"},
		{"Version before any migration", &fakeMigrator{versErr: migrate.ErrNilVersion}, "version", nil, false, "version"},
		{"Force", &fakeMigrator{}, "force", []string{"1"}, false, "force"},
		{"Force with bad version", &fakeMigrator{}, "force", []string{"one"}, true, ""},
		{"Unknown command", &fakeMigrator{}, "redo", nil, true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.m, tc.command, tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantCall == "" {
				if len(tc.m.calls) != 0 {
					t.Errorf("calls = %v, want none", tc.m.calls)
				}
				return
			}
			if len(tc.m.calls) != 1 || tc.m.calls[0] != tc.wantCall {
				t.Errorf("calls = %v, want [%s]", tc.m.calls, tc.wantCall)
			}
		})
	}
}

func TestRunPassesNumbers(t *testing.T) {
	m := &fakeMigrator{}
	if err := run(m, "steps", []string{"-2"}); err != nil {
		t.Fatalf("run(steps) failed: %v", err)
	}
	if m.steps != -2 {
		t.Errorf("steps = %d, want -2", m.steps)
	}
	if err := run(m, "force", []string{"3"}); err != nil {
		t.Fatalf("run(force) failed: %v", err)
	}
	if m.forced != 3 {
		t.Errorf("forced = %d, want 3", m.forced)
	}
}
