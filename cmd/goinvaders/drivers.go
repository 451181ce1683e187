//go:build !ebiten

package main

import (
	_ "github.com/thelolagemann/go-invaders/pkg/display/fyne"
	_ "github.com/thelolagemann/go-invaders/pkg/display/glfw"
	_ "github.com/thelolagemann/go-invaders/pkg/display/sdl"
	_ "github.com/thelolagemann/go-invaders/pkg/display/web"
)
