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

// Command recordsource is a reference implementation of the external
// record-source subprocess contract: it prints a JSON array of
// {"name": ...} objects to stdout and exits. A real deployment replaces it
// with whatever script produces the live record set; server.SubprocessSource
// only requires the same stdout shape.
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type record struct {
	Name string `json:"name"`
}

var sampleRecords = []record{
	{Name: "Bitcoin"},
	{Name: "Ethereum"},
	{Name: "Tesla"},
}

func main() {
	if err := json.NewEncoder(os.Stdout).Encode(sampleRecords); err != nil {
		fmt.Fprintln(os.Stderr, "recordsource:", err)
		os.Exit(1)
	}
}
