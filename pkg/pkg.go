//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of kdn, embedded from the VERSION file.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables.
	Name = "kdn"
	// Description is the one-line summary shown in help output.
	Description = "Interpreter for the kdn scripting language"
	// Extension is the conventional file extension of kdn scripts.
	Extension = ".kdn"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
