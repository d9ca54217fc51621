// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container starts and stops local service containers, such as a
// LibreTranslate server for the translation bridge, with Docker or Podman.
package container

import (
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides the container operations needed to run a local service.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available() bool

	// ImageExists returns nil when the image is present locally.
	ImageExists(image string) error

	// Pull fetches an image.
	Pull(image string) error

	// Running reports whether a container with the given name is running.
	Running(name string) bool

	// Start launches svc detached. It is a no-op when svc is already running.
	Start(svc Service) error

	// Stop stops and removes the named container.
	Stop(name string) error
}

// Service describes a long-running container.
type Service struct {
	Name          string
	Image         string
	HostPort      int
	ContainerPort int
	Env           map[string]string
}

// LibreTranslateImage is the upstream LibreTranslate server image.
const LibreTranslateImage = "libretranslate/libretranslate:latest"

// LibreTranslate returns a service definition for a LibreTranslate server
// on hostPort. When languages is non-empty only those models are loaded,
// which shortens start-up considerably. English is always included.
func LibreTranslate(hostPort int, languages []string) Service {
	svc := Service{
		Name:          "bookshelf-libretranslate",
		Image:         LibreTranslateImage,
		HostPort:      hostPort,
		ContainerPort: 5000,
		Env:           map[string]string{},
	}
	if len(languages) > 0 {
		seen := map[string]bool{"en": true}
		load := []string{"en"}
		for _, l := range languages {
			l = strings.ToLower(strings.TrimSpace(l))
			if l != "" && !seen[l] {
				seen[l] = true
				load = append(load, l)
			}
		}
		svc.Env["LT_LOAD_ONLY"] = strings.Join(load, ",")
	}
	return svc
}

// runArgs returns the arguments for a detached run of svc.
func (s Service) runArgs() []string {
	args := []string{"run", "-d", "--rm", "--name", s.Name}
	if s.HostPort > 0 && s.ContainerPort > 0 {
		args = append(args, "-p", strconv.Itoa(s.HostPort)+":"+strconv.Itoa(s.ContainerPort))
	}
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+s.Env[k])
	}
	return append(args, s.Image)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	Output(name string, args ...string) (string, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

// runtime implements Runtime for one container binary. Docker and Podman
// differ only in the binary name and the image-existence subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string{}, r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Pull(image string) error {
	if err := r.exec.RunSilent(r.bin, "pull", image); err != nil {
		return fmt.Errorf("pulling %s with %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Running(name string) bool {
	out, err := r.exec.Output(r.bin, "inspect", "-f", "{{.State.Running}}", name)
	return err == nil && out == "true"
}

func (r *runtime) Start(svc Service) error {
	if r.Running(svc.Name) {
		return nil
	}
	if err := r.ImageExists(svc.Image); err != nil {
		if err := r.Pull(svc.Image); err != nil {
			return err
		}
	}
	if err := r.exec.RunSilent(r.bin, svc.runArgs()...); err != nil {
		return fmt.Errorf("starting %s with %s: %w", svc.Name, r.bin, err)
	}
	return nil
}

func (r *runtime) Stop(name string) error {
	if !r.Running(name) {
		return nil
	}
	if err := r.exec.RunSilent(r.bin, "stop", name); err != nil {
		return fmt.Errorf("stopping %s with %s: %w", name, r.bin, err)
	}
	return nil
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: exec}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: exec}
}

var defaultExec = &osExecutor{}

// DetectRuntime tries docker first, falls back to podman.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	for _, rt := range []*runtime{newDockerRuntime(exec), newPodmanRuntime(exec)} {
		if rt.Available() {
			return rt, nil
		}
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
