// Package components defines ECS components for droplet entities.
package components
