/*
 * errors.go, part of molsurf/sc.
 *
 * Copyright 2024 The molsurf developers
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

package sc

import "strings"

// Kind distinguishes the recoverable failure modes of the calculator so
// callers can react without string matching.
type Kind int

const (
	//KindOther covers internal errors with no dedicated kind.
	KindOther Kind = iota
	//KindUnknownRadius means no entry of the radius table matched.
	KindUnknownRadius
	//KindDuplicateCoord means two atoms of the same molecule coincide.
	KindDuplicateCoord
	//KindInsufficientAtoms means a molecule has no atoms at Calc time.
	KindInsufficientAtoms
	//KindEmptyInterface means trimming left no dots on some side.
	KindEmptyInterface
	//KindGeometry means an unrecoverable numerical breakdown.
	KindGeometry
)

// Error is the interface for errors that this library returns. The Decorate method allows to add and retrieve
// info from the error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Appends the given string to the decoration slice and returns the slice. An empty string only retrieves the current value.
	Kind() Kind
}

// CError is the concrete error type of the package. The decoration
// slice records the calling stack as the error bubbles up.
type CError struct {
	msg  string
	kind Kind
	deco []string
}

func (e *CError) Error() string {
	if len(e.deco) == 0 {
		return e.msg
	}
	return e.msg + " (" + strings.Join(e.deco, "/") + ")"
}

func (e *CError) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

func (e *CError) Kind() Kind {
	return e.kind
}

func newError(kind Kind, msg string) *CError {
	return &CError{msg: msg, kind: kind}
}

// errDecorate adds the caller's context to an error if it implements
// the package's Error interface, and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}

// ErrKind returns the Kind of err, or KindOther for foreign errors.
func ErrKind(err error) Kind {
	if e, ok := err.(Error); ok {
		return e.Kind()
	}
	return KindOther
}
