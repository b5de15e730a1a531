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

package reconcile

// Purge step names
const (
	StepRemotePapers = "remote papers"
	StepRemoteShares = "remote shares"
	StepMarker       = "deletion marker"
	StepStructured   = "local structured store"
	StepFlat         = "local flat store"
	StepFile         = "hosted file"
	StepSave         = "save"
	StepMirror       = "metadata mirror"
)

// Step is one action of a multi-tier purge
type Step struct {
	Name    string
	Skipped bool
	Err     error
}

// PurgeResult lists the steps of a purge in the order they ran. A failed step
// does not stop later steps.
type PurgeResult struct {
	Steps []Step
}

func (r *PurgeResult) run(name string, enabled bool, fn func() error) {
	s := Step{Name: name}
	if !enabled {
		s.Skipped = true
	} else {
		s.Err = fn()
	}

	r.Steps = append(r.Steps, s)
}

// Failed returns the steps that returned an error
func (r PurgeResult) Failed() []Step {
	var ret []Step
	for _, s := range r.Steps {
		if s.Err != nil {
			ret = append(ret, s)
		}
	}

	return ret
}

// OK reports whether every attempted step succeeded
func (r PurgeResult) OK() bool {
	return len(r.Failed()) == 0
}

// Step returns the step with the given name
func (r PurgeResult) Step(name string) (Step, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}

	return Step{}, false
}
