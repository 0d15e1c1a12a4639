package emu

import (
	"errors"

	"github.com/emu502/emu502/translate"
)

var f = translate.From

var (
	// Sparse image errors
	ErrCollision = errors.New(f("overlapping byte in sparse image"))

	// Symbol table errors
	ErrSymbolDuplicate = errors.New(f("symbol already defined"))
	ErrSymbolMissing   = errors.New(f("symbol not defined"))

	// Alias table errors
	ErrAliasDuplicate = errors.New(f("alias already defined"))
	ErrAliasMissing   = errors.New(f("alias not defined"))
	ErrAliasCycle     = errors.New(f("alias refers to itself"))

	// Relocation errors
	ErrRelocationRange = errors.New(f("relocation target out of range"))

	// Memory errors
	ErrAddressUnmapped = errors.New(f("address not mapped"))
)
