package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the error returned by a Fault without an explicit Err.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	FailAfterBytes int64 // Fail writes after this many bytes written TO THIS FILE. -1 to disable.
	FailReadAfter  int64 // Fail reads after this many bytes read FROM THIS FILE. -1 to disable.
	FailOnOpen     bool
	FailOnStat     bool
	FailOnReadDir  bool
	FailOnRemove   bool
	FailOnClose    bool
	Err            error
}

// NoFault is a Fault that never triggers.
var NoFault = Fault{FailAfterBytes: -1, FailReadAfter: -1}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS is a FileSystem wrapper that can inject errors.
type FaultyFS struct {
	FS    FileSystem
	mu    sync.Mutex
	rules map[string]Fault // Filename pattern -> Fault

	written int64
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		rules: make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for names containing pattern.
// Unset limits in fault are taken from NoFault.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	if fault.FailAfterBytes == 0 {
		fault.FailAfterBytes = NoFault.FailAfterBytes
	}
	if fault.FailReadAfter == 0 {
		fault.FailReadAfter = NoFault.FailReadAfter
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// ClearRules removes every fault injection rule.
func (f *FaultyFS) ClearRules() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = make(map[string]Fault)
}

// Written returns the total bytes written through the wrapper.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

func (f *FaultyFS) fault(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	fault := NoFault
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault := f.fault(name)
	if fault.FailOnOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error {
	if fault := f.fault(name); fault.FailOnRemove {
		return &os.PathError{Op: "remove", Path: name, Err: fault.err()}
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(name string) error {
	if fault := f.fault(name); fault.FailOnRemove {
		return &os.PathError{Op: "removeall", Path: name, Err: fault.err()}
	}
	return f.FS.RemoveAll(name)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	if fault := f.fault(name); fault.FailOnStat {
		return nil, &os.PathError{Op: "stat", Path: name, Err: fault.err()}
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) {
	if fault := f.fault(name); fault.FailOnReadDir {
		return nil, &os.PathError{Op: "readdir", Path: name, Err: fault.err()}
	}
	return f.FS.ReadDir(name)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
	read    int64
}

func (ff *faultyFile) Write(p []byte) (n int, err error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		// Write what fits, then fail: a partial write
		allowed := ff.fault.FailAfterBytes - ff.written
		if allowed > 0 {
			n, _ = ff.File.Write(p[:allowed])
			ff.account(n)
		}
		return n, ff.fault.err()
	}

	n, err = ff.File.Write(p)
	ff.account(n)
	return n, err
}

func (ff *faultyFile) account(n int) {
	if n <= 0 {
		return
	}
	ff.written += int64(n)
	ff.fs.mu.Lock()
	ff.fs.written += int64(n)
	ff.fs.mu.Unlock()
}

func (ff *faultyFile) Read(p []byte) (n int, err error) {
	if ff.fault.FailReadAfter >= 0 {
		allowed := ff.fault.FailReadAfter - ff.read
		if allowed <= 0 {
			return 0, ff.fault.err()
		}
		if int64(len(p)) > allowed {
			p = p[:allowed]
		}
	}
	n, err = ff.File.Read(p)
	ff.read += int64(n)
	return n, err
}

func (ff *faultyFile) Close() error {
	err := ff.File.Close()
	if ff.fault.FailOnClose {
		return ff.fault.err()
	}
	return err
}
