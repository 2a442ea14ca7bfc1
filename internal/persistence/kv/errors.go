package kv

import "errors"

var errWriteFailed = errors.New("kv: write failed")
