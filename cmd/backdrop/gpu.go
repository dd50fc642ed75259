//go:build !nogpu

package main

import _ "github.com/gogpu/backdrop/gpu" // enable GPU blur
