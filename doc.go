// Package scope provides exclusive-ownership guards for resources that need
// explicit cleanup, together with ready-made guards for the resources Go
// programs commonly hold.
//
// A guard owns one resource value and a deleter. It runs the deleter at
// most once per allocated value, transfers ownership on request, and keeps
// that guarantee when constructing or transferring fails halfway.
//
// # Architecture Overview
//
//	scope/
//	├── resource/        Unique guard, traits, Ref, NewChecked and Stack
//	├── errors/          Structured error types for failed transfers and cleanup
//	├── fd/              POSIX file descriptors (golang.org/x/sys/unix)
//	├── secret/          Locked secret buffers (memguard)
//	├── kv/              pebble databases, batches, iterators and snapshots
//	├── guest/           WebAssembly guest memory and modules (wazero)
//	├── metrics/         Prometheus observer for Stack events
//	└── cmd/scope/       CLI running lifecycle scenarios
//
// # Quick Start
//
// Guard a descriptor and hand it to a new owner:
//
//	f, err := fd.Open(path, unix.O_RDONLY, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	owner, err := f.Move()
//	if err != nil {
//	    log.Fatal(err) // f still owns the descriptor
//	}
//	defer owner.Close()
//
// Close several resources in reverse acquisition order:
//
//	err := resource.Run(func(s *resource.Stack) error {
//	    db, err := kv.OpenDB(dir, nil)
//	    if err != nil {
//	        return err
//	    }
//	    s.Push("db", db)
//	    ...
//	})
//
// # Failed Transfers
//
// Resources and deleters whose transfer can fail implement
// resource.Copier. Failures are reported as *errors.Error values carrying
// the phase (construct, move, assign, swap, reset) and the part that failed;
// the underlying error stays reachable through errors.Is and errors.As.
package scope
