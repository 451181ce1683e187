//go:build ebiten

// ebiten links its own copy of GLFW, so it is built without the
// drivers that use go-gl/glfw.

package main

import (
	_ "github.com/thelolagemann/go-invaders/pkg/display/ebiten"
	_ "github.com/thelolagemann/go-invaders/pkg/display/sdl"
	_ "github.com/thelolagemann/go-invaders/pkg/display/web"
)
