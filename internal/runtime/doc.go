// Package runtime manages install containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image pulls
// and container creation. Images are pulled from their registry for an
// explicit target platform and unpacked into the snapshotter, so that
// natively compiled dependencies are built for the deployment runtime's
// OS and architecture rather than the host's.
//
// Each [Container] wraps a running containerd task. Commands can be
// executed inside the container and files can be copied in and out as
// tar streams. When the container is no longer needed it should be
// destroyed to release its snapshot and task resources.
//
// Example usage:
//
//	rt, err := runtime.New(paths.ContainerdSocket(), "lambdapack")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartContainer(ctx, "public.ecr.aws/lambda/python:3.12", "install-1", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, nil, "", "pip", "--version")
package runtime
