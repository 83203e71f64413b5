// Package internal drives the idiom passes over Python 2 files.
//
// Engine parses a file, collects its ignore directives and runs the passes
// of one pipeline stage over the tree, writing the result back when a pass
// rewrote something. A file is processed in two stages around futurize:
//
//	engine := internal.NewEngine(internal.Options{Logger: logger})
//	env := &idioms.Env{Display: display, Chooser: chooser}
//	changed, err := engine.Run("pkg/util.py", idioms.Preprocess, env)
//	if err != nil {
//	    // handle error
//	}
//
// Cache keeps the changes found by a dry run per file, keyed on the file
// content, so repeated scans skip files that did not change. Watcher runs
// a callback whenever a Python file under the watched directories is
// written.
//
// This package is intended for internal use within py3port and should not
// be imported by external packages.
package internal
