//go:build tools

package tools

// Pin code generation tools used by go:generate directives.
// Фиксируем инструменты кодогенерации, используемые директивами go:generate.
import (
	_ "go.uber.org/mock/mockgen"
)
