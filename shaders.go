package thicket

import "embed"

// Shaders holds the default scene shader pair under "shaders/".
//
//go:embed shaders/scene.vert shaders/scene.frag
var Shaders embed.FS
