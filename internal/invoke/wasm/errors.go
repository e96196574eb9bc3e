package wasm

import "errors"

var errMissingStart = errors.New("wasm module does not export \"_start\"")
