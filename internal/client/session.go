package client

import "fmt"

// Phase is the lifecycle stage of one create/edit submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollecting
	PhaseUploadingBlob
	PhaseSubmittingMetadata
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCollecting:
		return "collecting"
	case PhaseUploadingBlob:
		return "uploading-blob"
	case PhaseSubmittingMetadata:
		return "submitting-metadata"
	case PhaseSettled:
		return "settled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// File is a picked file: raw bytes plus the declared content type sent
// with the blob PUT.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Preview is the locally generated preview resource for a picked file. It
// stands in for the browser's object URL and must be released exactly like
// one: when the file is replaced or cleared, and when the session ends.
type Preview struct {
	url      string
	released bool
}

// URL returns the preview's local address.
func (p *Preview) URL() string { return p.url }

// Released reports whether the preview resource has been freed.
func (p *Preview) Released() bool { return p.released }

// Release frees the preview resource. Idempotent.
func (p *Preview) Release() { p.released = true }

// Session is the ephemeral state between "user picked a file" and "server
// confirmed the item". It owns the selected file exclusively until the
// submission settles or the session is reset.
type Session struct {
	phase   Phase
	file    *File
	preview *Preview
	err     error
}

// NewSession starts a session in the collecting phase.
func NewSession() *Session {
	return &Session{phase: PhaseCollecting}
}

// Phase returns the session's current lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// File returns the currently selected file, if any.
func (s *Session) File() *File { return s.file }

// Preview returns the preview for the selected file, if any.
func (s *Session) Preview() *Preview { return s.preview }

// Err returns the settlement error, if the session settled with one.
func (s *Session) Err() error { return s.err }

// SelectFile replaces the picked file. Any previous preview is released
// before the new one is created, so repeated selections never leak.
func (s *Session) SelectFile(f *File) {
	if s.preview != nil {
		s.preview.Release()
		s.preview = nil
	}
	s.file = f
	if f != nil {
		s.preview = &Preview{url: "blob:preview/" + f.Name}
	}
}

// ClearFile drops the picked file and releases its preview immediately.
func (s *Session) ClearFile() {
	s.SelectFile(nil)
}

// Reset returns the session to a fresh collecting state, releasing any
// held preview resource.
func (s *Session) Reset() {
	s.ClearFile()
	s.phase = PhaseCollecting
	s.err = nil
}

// settle records the final outcome and releases the preview resource.
func (s *Session) settle(err error) {
	s.err = err
	s.phase = PhaseSettled
	if s.preview != nil {
		s.preview.Release()
	}
}
