package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Interfaces    []*definitionBlock `hcl:"interface,block"`
	Modules       []*definitionBlock `hcl:"module,block"`
	Subsystems    []*definitionBlock `hcl:"subsystem,block"`
	Adapters      []*definitionBlock `hcl:"adapter,block"`
	Interconnects []*definitionBlock `hcl:"interconnect,block"`
}

// definitionBlock is the raw form of any definition. Everything that is not
// a param, signal, or instance block stays in Remain and is read as
// attributes.
type definitionBlock struct {
	Name      string           `hcl:"name,label"`
	Params    []*paramBlock    `hcl:"param,block"`
	Signals   []*signalBlock   `hcl:"signal,block"`
	Instances []*instanceBlock `hcl:"instance,block"`
	Remain    hcl.Body         `hcl:",remain"`
	DefRange  hcl.Range        `hcl:",def_range"`
}

type paramBlock struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
	DefRange    hcl.Range      `hcl:",def_range"`
}

type signalBlock struct {
	Name     string    `hcl:"name,label"`
	Remain   hcl.Body  `hcl:",remain"`
	DefRange hcl.Range `hcl:",def_range"`
}

type instanceBlock struct {
	Definition string         `hcl:"definition,label"`
	Name       string         `hcl:"name,label"`
	At         hcl.Expression `hcl:"at,optional"`
	Params     hcl.Expression `hcl:"params,optional"`
	DefRange   hcl.Range      `hcl:",def_range"`
}
