package model

// SourceKind identifies where a submitted clip comes from.
type SourceKind string

const (
	// SourceUpload is a file attached to the submission command.
	SourceUpload SourceKind = "upload"
	// SourceRemote is a YouTube link fetched with the video extractor.
	SourceRemote SourceKind = "remote"
)

// Source describes the media of a submission.
// Start and End are offsets in seconds and are nil when not supplied.
// Duration is the probed length in seconds, zero when unknown.
type Source struct {
	Kind     SourceKind
	URL      string
	Filename string
	Start    *int
	End      *int
	Duration int
}

// HasRange reports whether both offsets were supplied.
func (s Source) HasRange() bool {
	return s.Start != nil && s.End != nil
}

// Submission is one invocation of a submission command. It lives only as long
// as the handler that created it.
type Submission struct {
	ID        string
	ChannelID string
	UserID    string
	Source    Source
	LocalPath string
}
