// Package state persists which units and steps of a pipeline have completed.
//
// A [Store] keeps three membership collections: completed jobs, completed
// steps per job, and completed steps per image build. Units are identified
// by their container name and steps by their content hash. The collections
// are written to a single JSON record after every change so that a rerun
// can skip work that already succeeded.
//
// The store holds no policy of its own; deciding what to skip and when to
// persist is up to the caller. A disabled store behaves as if empty and
// never touches the record on disk.
//
// Example usage:
//
//	st := state.New("dockerpack.lock")
//	if err := st.Load(); err != nil {
//	    return err
//	}
//
//	if !st.HasCompletedStep(job, hash) {
//	    // run the step
//	    st.MarkStepCompleted(job, hash)
//	    if err := st.Save(); err != nil {
//	        return err
//	    }
//	}
package state
