// Package capture provides a synthetic microphone: a capture device that
// generates PCM audio and a matching analysis tap without any hardware.
// Headless deployments and tests use it in place of a platform device.
package capture
