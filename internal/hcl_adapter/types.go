package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Tasks    []*taskBlock    `hcl:"task,block"`
	Variants []*variantBlock `hcl:"variant,block"`
	Suites   []*suiteBlock   `hcl:"suite,block"`
	Changed  []*changedBlock `hcl:"changed_test,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// taskBlock is the HCL schema of a `task` block.
type taskBlock struct {
	Name      string       `hcl:"name,label"`
	Tags      []string     `hcl:"tags,optional"`
	DependsOn []string     `hcl:"depends_on,optional"`
	Funcs     []*funcBlock `hcl:"func,block"`
}

// funcBlock is one `func "<name>"` call inside a task.
type funcBlock struct {
	Name string         `hcl:"name,label"`
	Vars hcl.Expression `hcl:"vars,optional"`
}

// variantBlock is the HCL schema of a `variant` block.
type variantBlock struct {
	Name        string          `hcl:"name,label"`
	DisplayName string          `hcl:"display_name,optional"`
	RunOn       []string        `hcl:"run_on,optional"`
	Platform    string          `hcl:"platform,optional"`
	Expansions  hcl.Expression  `hcl:"expansions,optional"`
	Tasks       []*taskRefBlock `hcl:"task,block"`
}

type taskRefBlock struct {
	Name    string   `hcl:"name,label"`
	Distros []string `hcl:"distros,optional"`
}

type suiteBlock struct {
	Name  string   `hcl:"name,label"`
	Tests []string `hcl:"tests"`
}

type changedBlock struct {
	Test    string `hcl:"test,label"`
	Suite   string `hcl:"suite"`
	Task    string `hcl:"task"`
	Variant string `hcl:"variant,optional"`
}
