package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Gist is one public gist as returned by the GitHub REST API.
type Gist struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	CreatedAt   time.Time `json:"created_at"`
	Files       Files     `json:"files"`
}

// File is a single file of a gist. Language is GitHub's own detection and
// may be empty or unknown to the highlighter; RawURL serves the content.
type File struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	RawURL   string `json:"raw_url"`
	Size     int    `json:"size"`
	Type     string `json:"type"`
}

// Files holds a gist's files in the order the API document lists them. The
// feed renders the first file only, and "first" means first in the JSON
// object, which a plain Go map would not preserve.
type Files []File

func (fs *Files) UnmarshalJSON(data []byte) error {
	*fs = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("gist files: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var f File
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("gist file %q: %w", key, err)
		}
		if f.Filename == "" {
			f.Filename = key
		}
		*fs = append(*fs, f)
	}

	// closing brace
	_, err = dec.Token()
	return err
}

// FirstFile returns the gist's first file in API order.
func (g *Gist) FirstFile() (File, bool) {
	if len(g.Files) == 0 {
		return File{}, false
	}
	return g.Files[0], true
}

// Title is the gist description, or a synthetic "Gist N" label when the
// description is empty. position is 0-indexed, the label 1-indexed.
func (g *Gist) Title(position int) string {
	if g.Description != "" {
		return g.Description
	}
	return "Gist " + strconv.Itoa(position+1)
}
