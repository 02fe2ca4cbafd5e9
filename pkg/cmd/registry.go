// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/registry"
	"github.com/dukex/iterable-cog/pkg/steps/contactfieldequals"
	"github.com/dukex/iterable-cog/pkg/steps/createorupdatecontact"
	"github.com/dukex/iterable-cog/pkg/steps/deletecontact"
	"github.com/dukex/iterable-cog/pkg/steps/discovercontact"
)

// nativeSteps lists the steps in manifest order.
var nativeSteps = []protocol.StepFactory{
	createorupdatecontact.New,
	deletecontact.New,
	discovercontact.New,
	contactfieldequals.New,
}

func NewRegistry(log *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(log)

	for _, factory := range nativeSteps {
		if err := reg.Register(factory); err != nil {
			panic(err)
		}
	}

	return reg
}
