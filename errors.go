/*
 * errors.go, part of quantic.
 *
 *
 * Copyright 2024 The quantic Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"errors"
	"fmt"
	"strings"
)

//ErrorKind classifies the failures that the library reports.
type ErrorKind int

const (
	//Unclassified errors, usually wrapped I/O errors.
	Unclassified ErrorKind = iota
	//ReferenceDataUnavailable means a reference table could not be read or parsed.
	//It is a startup failure.
	ReferenceDataUnavailable
	//MalformedInput means mismatched lengths or out-of-range indexes.
	//The caller may retry with corrected input.
	MalformedInput
	//DeviceUnavailable means no compatible GPU adapter or device was found.
	DeviceUnavailable
	//InvalidProcessKind means an unknown process kind was requested.
	InvalidProcessKind
	//ReadbackFailure means the submission or the mapping of the result buffer failed.
	ReadbackFailure
)

var kindNames = map[ErrorKind]string{
	Unclassified:             "unclassified",
	ReferenceDataUnavailable: "reference data unavailable",
	MalformedInput:           "malformed input",
	DeviceUnavailable:        "device unavailable",
	InvalidProcessKind:       "invalid process kind",
	ReadbackFailure:          "readback failure",
}

func (K ErrorKind) String() string {
	if s, ok := kindNames[K]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(K))
}

//Error is the error type returned by all packages in this library.
//The Decorate method adds the name of each function the error passes through,
//without changing its type or wrapping it around something else.
type Error struct {
	message  string
	kind     ErrorKind
	deco     []string
	critical bool
	err      error //the underlying error, if any
}

//NewError returns an Error of the given kind. Errors of kind
//ReferenceDataUnavailable are critical.
func NewError(kind ErrorKind, message string, caller ...string) *Error {
	return &Error{
		message:  message,
		kind:     kind,
		deco:     append([]string(nil), caller...),
		critical: kind == ReferenceDataUnavailable,
	}
}

//WrapError returns an Error of the given kind carrying err.
func WrapError(kind ErrorKind, err error, message string, caller ...string) *Error {
	E := NewError(kind, message, caller...)
	E.err = err
	return E
}

func (E *Error) Error() string {
	msg := E.message
	if E.err != nil {
		if msg == "" {
			msg = E.err.Error()
		} else {
			msg = msg + ": " + E.err.Error()
		}
	}
	if len(E.deco) == 0 {
		return fmt.Sprintf("quantic: %s", msg)
	}
	return fmt.Sprintf("quantic: %s (in %s)", msg, strings.Join(E.deco, " < "))
}

//Decorate adds dec to the call chain of the error and returns
//the resulting chain. An empty string just returns the current chain.
func (E *Error) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

//Kind returns the classification of the error.
func (E *Error) Kind() ErrorKind { return E.kind }

//Critical returns true if the program should not continue after the error.
func (E *Error) Critical() bool { return E.critical }

//Unwrap returns the underlying error, if any.
func (E *Error) Unwrap() error { return E.err }

//Is reports whether target is a kind sentinel matching this error,
//so errors.Is(err, chem.ErrMalformedInput) works.
func (E *Error) Is(target error) bool {
	t, ok := target.(kindSentinel)
	return ok && ErrorKind(t) == E.kind
}

type kindSentinel ErrorKind

func (k kindSentinel) Error() string { return ErrorKind(k).String() }

//Sentinels for use with errors.Is.
var (
	ErrReferenceDataUnavailable error = kindSentinel(ReferenceDataUnavailable)
	ErrMalformedInput           error = kindSentinel(MalformedInput)
	ErrDeviceUnavailable        error = kindSentinel(DeviceUnavailable)
	ErrInvalidProcessKind       error = kindSentinel(InvalidProcessKind)
	ErrReadbackFailure          error = kindSentinel(ReadbackFailure)
)

//KindOf returns the kind of err if it is, or wraps, an *Error,
//and Unclassified otherwise.
func KindOf(err error) ErrorKind {
	var E *Error
	if errors.As(err, &E) {
		return E.kind
	}
	return Unclassified
}

//ErrDecorate decorates err with caller if it is an *Error, and returns it.
//Other errors are wrapped in an Unclassified *Error.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var E *Error
	if errors.As(err, &E) {
		E.Decorate(caller)
		return err
	}
	return WrapError(Unclassified, err, "", caller)
}
