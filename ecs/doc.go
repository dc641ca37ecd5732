// Package ecs provides ECS adapters for grove's lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges grove lifecycle
// events (scene loaded, began, destroyed, entity destroyed, transition
// queued) into a [Donburi] world as typed events. Subscribe to
// [LifecycleEventType] in your ECS systems to receive them.
//
// Usage:
//
//	ctx.Events = ecs.NewDonburiSink(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
