package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/platforms"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing lambdapack to run as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Manages the containerd client and provides image and container operations.
type Runtime struct {
	client *containerd.Client // Containerd client for managing containers and images.
}

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to this tool. A missing
// socket or failed connection surfaces as [ErrUnavailable] so callers can
// distinguish an absent container runtime from a genuine build failure.
// The client itself dials lazily; the socket is checked here so that the
// error arrives before any pipeline work starts. The runtime must be closed
// when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	if _, err := os.Stat(address); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, address, err)
	}

	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, address, err)
	}
	return &Runtime{client: client}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Pulls an image for the target platform and starts a container from it.
//
// The image layers are pulled and unpacked into the snapshotter for the
// requested platform, a container is created with a fresh snapshot, and a
// long-running task (sleep infinity) is started so that subsequent Exec
// calls have a running process to attach to. Any existing container with
// the same ID is removed before the new one is created. Building for a
// platform other than the host requires QEMU / binfmt_misc support in the
// kernel.
func (rt *Runtime) StartContainer(ctx context.Context, ref, id, platform string) (*Container, error) {
	image, err := rt.pullImage(ctx, ref, platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platform,
	}

	// Remove any stale container from a previous run with the same ID.
	c.remove(ctx)

	ctr, err := c.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container started", "id", id, "image", ref)

	return c, nil
}

// Pulls an image from its registry and unpacks it for the target platform.
//
// Already-pulled images resolve from the local content store without a
// network round trip; the image cache is shared across runs and treated
// as read-only by the packaging pipeline.
func (rt *Runtime) pullImage(ctx context.Context, ref, platform string) (containerd.Image, error) {
	p, err := parsePlatform(platform)
	if err != nil {
		return nil, err
	}

	slog.Info("pulling image", "ref", ref, "platform", platforms.Format(p))

	return rt.client.Pull(ctx, ref,
		containerd.WithPlatformMatcher(platforms.Only(p)),
		containerd.WithPullSnapshotter(snapshotter),
		containerd.WithPullUnpack,
	)
}

// Parses an "os/arch" platform string into its OCI form.
func parsePlatform(platform string) (ocispec.Platform, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return ocispec.Platform{}, fmt.Errorf("invalid platform %q: %w", platform, err)
	}
	return p, nil
}

// Returns the default OCI platform for the host architecture.
func DefaultPlatform() string {
	return "linux/" + goruntime.GOARCH
}
