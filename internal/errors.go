/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package internal holds the sentinel errors shared across the PIR
// components, and the small helpers with no other natural home.
package internal

import "errors"

// ErrDatabaseNotReady is returned when a database is queried before its
// first successful Update.
var ErrDatabaseNotReady = errors.New("database has not completed its first update")

// ErrShapeMismatch is returned when a freshly built matrix is not square,
// or when an operand's dimensions don't fit the operation.
var ErrShapeMismatch = errors.New("matrix is not square")

// ErrExternalCommand is returned when the record-source subprocess fails
// or emits output that cannot be parsed as a record list.
var ErrExternalCommand = errors.New("record source command failed")

// ErrEmbedding is returned on embedder initialisation or inference failure.
var ErrEmbedding = errors.New("embedding failed")

// ErrInvalidInput is returned for caller errors: empty vectors, k == 0,
// more records than the embedding width can hold, and similar.
var ErrInvalidInput = errors.New("invalid input")

// ErrTransport is returned for HTTP or JSON errors talking to a remote
// database.
var ErrTransport = errors.New("transport error")

// ErrDecode is returned when recovered record bytes do not form valid
// UTF-8, or when a remote database's JSON response cannot be parsed.
var ErrDecode = errors.New("decode error")
