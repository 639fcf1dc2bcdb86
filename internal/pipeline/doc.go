// Package pipeline resolves pipeline documents into execution plans.
//
// A pipeline document is a YAML file declaring reusable command templates
// ("commands"), images to build ("build_images") and either a set of named
// jobs ("jobs") or a matrix of images sharing one step list ("multijob").
// Documents may pull in fragments through "include"; fragments contribute
// templates and image builds and may include further fragments.
//
// [Resolve] flattens every template reference into concrete [Step] values,
// expands multijob entries into individual jobs, substitutes "$ENV" values
// from the environment and returns an immutable [Config]. Steps spliced from
// a template are deep copies, so two jobs never share a step's environment.
//
// Example usage:
//
//	cfg, err := pipeline.Resolve("dockerpack.yml", pipeline.Options{
//	    Cwd: cwd,
//	    Env: environ.OS,
//	})
//	if err != nil {
//	    return err
//	}
//
//	for _, job := range cfg.Jobs {
//	    fmt.Println(job.ContainerName(), len(job.Steps))
//	}
package pipeline
