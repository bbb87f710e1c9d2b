// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package address provides the representation of foreign actor paths.
//
// A path is an ordered list of system identifiers terminated by the local
// identifier of an actor inside the last system of the list:
//
//	system1:system2:actorID
//
// Every system segment names the next hop a message travels through. A path
// without system segments addresses an actor of the local system. Path values
// are immutable: First, PopFirst and Peel return new values.
package address

import (
	"strings"

	"github.com/tochemey/fluxion/errors"
	"github.com/tochemey/fluxion/internal/validation"
)

// Separator separates the segments of a textual path
const Separator = ":"

// SystemIDPattern is the pattern a system identifier must match
const SystemIDPattern = `^[a-zA-Z0-9][a-zA-Z0-9_-]*$`

// Path addresses an actor through zero or more systems.
type Path struct {
	systems []string
	actor   string
}

var _ validation.Validator = Path{}

// New creates a Path to the given actor through the given systems.
// New does not validate its inputs; call Validate to check the result.
func New(actor string, systems ...string) Path {
	return Path{
		systems: append([]string(nil), systems...),
		actor:   actor,
	}
}

// Parse parses the textual form of a path and validates it.
func Parse(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return Path{}, errors.ErrInvalidPath
	}
	segments := strings.Split(s, Separator)
	path := Path{
		systems: segments[:len(segments)-1],
		actor:   segments[len(segments)-1],
	}
	if err := path.Validate(); err != nil {
		return Path{}, err
	}
	return path, nil
}

// MustParse is like Parse but panics when the path is invalid.
func MustParse(s string) Path {
	path, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return path
}

// Systems returns a copy of the system segments, first hop first.
func (p Path) Systems() []string {
	return append([]string(nil), p.systems...)
}

// Actor returns the local identifier of the actor in the last system.
func (p Path) Actor() string {
	return p.actor
}

// First returns the first system segment. The boolean is false when the path
// is local.
func (p Path) First() (string, bool) {
	if len(p.systems) == 0 {
		return "", false
	}
	return p.systems[0], true
}

// PopFirst returns the path without its first system segment. A local path is
// returned unchanged.
func (p Path) PopFirst() Path {
	if len(p.systems) == 0 {
		return p
	}
	return Path{systems: p.systems[1:], actor: p.actor}
}

// Peel removes the leading segments equal to system.
func (p Path) Peel(system string) Path {
	out := p
	for {
		first, ok := out.First()
		if !ok || first != system {
			return out
		}
		out = out.PopFirst()
	}
}

// IsLocal returns true when the path has no system segment.
func (p Path) IsLocal() bool {
	return len(p.systems) == 0
}

// Len returns the number of system segments.
func (p Path) Len() int {
	return len(p.systems)
}

// String returns the textual form of the path.
func (p Path) String() string {
	if len(p.systems) == 0 {
		return p.actor
	}
	var sb strings.Builder
	for _, system := range p.systems {
		sb.WriteString(system)
		sb.WriteString(Separator)
	}
	sb.WriteString(p.actor)
	return sb.String()
}

// Equals returns true when both paths have the same segments.
func (p Path) Equals(other Path) bool {
	return p.String() == other.String()
}

// Validate checks every system segment and the actor segment.
func (p Path) Validate() error {
	if p.actor == "" || strings.Contains(p.actor, Separator) {
		return errors.ErrInvalidPath
	}
	chain := validation.New(validation.FailFast())
	for _, system := range p.systems {
		if system == "" {
			return errors.ErrInvalidPath
		}
		chain.AddValidator(NewSystemIDValidator(system))
	}
	return chain.Validate()
}

// NewSystemIDValidator returns a validator for a system identifier.
func NewSystemIDValidator(id string) validation.Validator {
	return validation.NewPatternValidator(SystemIDPattern, id, errors.ErrInvalidSystemID)
}
