/* Copyright 2025 Papershelf Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package catalog

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	validator "github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalid is returned when serialized papers do not match the paper schema
var ErrInvalid = errors.New("invalid paper data")

const schemaURL = "papershelf://paper.json"

var (
	compileOnce sync.Once
	paperSchema *validator.Schema
	compileErr  error
)

// Schema returns the JSON schema of a paper record
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		Anonymous:                  true,
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&Paper{})

	b, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling paper schema")
	}

	return b, nil
}

func compiled() (*validator.Schema, error) {
	compileOnce.Do(func() {
		b, err := Schema()
		if err != nil {
			compileErr = err
			return
		}

		doc, err := validator.UnmarshalJSON(bytes.NewReader(b))
		if err != nil {
			compileErr = errors.Wrap(err, "reading paper schema")
			return
		}

		c := validator.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = errors.Wrap(err, "adding paper schema")
			return
		}

		paperSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compiling paper schema")
		}
	})

	return paperSchema, compileErr
}

// DecodeCollection validates a serialized collection against the paper
// schema and decodes it. Errors caused by the data wrap ErrInvalid.
func DecodeCollection(data []byte) ([]Paper, error) {
	sch, err := compiled()
	if err != nil {
		return nil, err
	}

	doc, err := validator.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}

	items, ok := doc.([]interface{})
	if !ok {
		return nil, errors.Wrap(ErrInvalid, "collection is not an array")
	}
	for i, item := range items {
		if err := sch.Validate(item); err != nil {
			return nil, errors.Wrapf(ErrInvalid, "paper at index %d: %s", i, err.Error())
		}
	}

	var papers []Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	if papers == nil {
		papers = []Paper{}
	}

	return papers, nil
}

// ValidateCollection reports whether data is a valid serialized collection
func ValidateCollection(data []byte) error {
	_, err := DecodeCollection(data)
	return err
}
