package main

import "errors"

var errOutOfFrames = errors.New("kernelctl: frame pool exhausted building memory space")
