package main

import (
	"embed"
)

//go:embed assets/*
var content embed.FS

func main() {
	Execute()
}
