package cli

// Flags shared by every command that reads the pipeline document.
type documentFlags struct {
	Config string `short:"c" help:"Path to the pipeline document. Defaults to ./dockerpack.yml." placeholder:"PATH" type:"path"`
	Filter string `short:"n" help:"Only act on units whose name or image contains TEXT." placeholder:"TEXT"`
}

// Flags shared by the commands that execute the pipeline.
type executionFlags struct {
	Reset     bool              `help:"Discard the state record before running."`
	Stateless bool              `help:"Neither read nor write the state record, and replace existing containers."`
	CopyLocal bool              `name:"copy-local" help:"Copy the working directory into containers instead of running checkout."`
	Env       map[string]string `short:"e" help:"Environment override applied to every unit. Repeatable." placeholder:"KEY=VALUE"`
}
