// Package jjryuerr defines the error taxonomy shared across the core:
// a small closed set of Kinds, classified at the boundaries that need
// to branch on them (the executor's result bookkeeping, the CLI's
// exit-message selection), while internal failures that nobody needs
// to classify stay as plain wrapped errors.
package jjryuerr

import (
	"errors"
	"fmt"
)

// Kind classifies the nature of a failure.
type Kind int

const (
	// Unknown is the zero value; it should not appear in practice.
	Unknown Kind = iota

	// NotAVcsWorkspace indicates the path is not a valid jj working copy.
	NotAVcsWorkspace

	// NoSupportedRemotes indicates no configured remote classifies to
	// a supported forge.
	NoSupportedRemotes

	// RemoteNotFound indicates a named remote does not exist.
	RemoteNotFound

	// BookmarkNotFound indicates a submit target does not exist in the
	// change graph.
	BookmarkNotFound

	// Auth indicates missing or rejected credentials.
	Auth

	// PlatformAPI indicates a transport or API error from the hosting
	// platform. Platform reports which one.
	PlatformAPI

	// VCSCommand indicates a failure from the VCS adapter (push
	// rejected, revset evaluation failed).
	VCSCommand

	// Parse indicates a malformed remote URL or API response.
	Parse

	// Internal indicates a violated invariant, e.g. a dangling parent
	// pointer in the change graph.
	Internal
)

func (k Kind) String() string {
	switch k {
	case NotAVcsWorkspace:
		return "not a vcs workspace"
	case NoSupportedRemotes:
		return "no supported remotes"
	case RemoteNotFound:
		return "remote not found"
	case BookmarkNotFound:
		return "bookmark not found"
	case Auth:
		return "authentication error"
	case PlatformAPI:
		return "platform api error"
	case VCSCommand:
		return "vcs command error"
	case Parse:
		return "parse error"
	case Internal:
		return "internal error"
	default:
		return "unknown error"
	}
}

// Platform identifies which hosting platform a PlatformAPI error came
// from.
type Platform int

const (
	// NoPlatform is the zero value, used when Kind != PlatformAPI.
	NoPlatform Platform = iota
	GitHub
	GitLab
)

func (p Platform) String() string {
	switch p {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	default:
		return ""
	}
}

// Error is a classified failure, carrying enough context (the failing
// operation and, where relevant, the bookmark involved) to build a
// single top-level user-visible message.
type Error struct {
	Kind     Kind
	Platform Platform // set only when Kind == PlatformAPI
	Op       string   // the failing operation, e.g. "jj git push"
	Bookmark string   // the bookmark involved, if any
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Platform != NoPlatform {
		msg = fmt.Sprintf("%s (%s)", msg, e.Platform)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Bookmark != "" {
		msg = fmt.Sprintf("%s: bookmark %q", msg, e.Bookmark)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// As reports whether err (or one it wraps) is a *Error, and if so
// returns it. A thin wrapper over errors.As for call-site brevity.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
