// Package history keeps the lines entered at the prompt and persists them to a
// file between sessions.
package history

import (
	"bufio"
	"errors"
	"io/fs"
	"sync"

	"github.com/spf13/afero"
)

const defaultMaxItems = 1000

type History struct {
	items    []string
	fs       afero.Fs
	file     string
	maxItems int
	mu       sync.Mutex
}

// New loads the history stored in file. A missing file starts an empty
// history.
func New(fsys afero.Fs, file string) (*History, error) {
	h := &History{
		fs:       fsys,
		file:     file,
		maxItems: defaultMaxItems,
	}
	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

// Add appends item and saves the history.
func (h *History) Add(item string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, item)
	h.trim()
	return h.save()
}

func (h *History) GetAll() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string{}, h.items...)
}

func (h *History) trim() {
	if len(h.items) > h.maxItems {
		h.items = h.items[len(h.items)-h.maxItems:]
	}
}

func (h *History) load() error {
	file, err := h.fs.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.items = append(h.items, scanner.Text())
	}
	h.trim()
	return scanner.Err()
}

func (h *History) save() error {
	file, err := h.fs.Create(h.file)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range h.items {
		if _, err := writer.WriteString(item + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
