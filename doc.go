// Package grove is the scene graph and lifecycle core for [Ebitengine] games.
//
// Grove owns the structural side of a game: the tree of entities, the layers
// that schedule them every frame, the scenes that group layers into a
// loadable screen, and the scene manager that switches between screens
// without tearing down objects that the frame loop is still using.
//
// # Quick start
//
// Build a [Context], register entity kinds, point a [SceneManager] at a
// scene directory and hand it to [Run]:
//
//	ctx := &grove.Context{Log: log, Assets: os.DirFS("scenes"), Factory: grove.NewFactory()}
//	_ = grove.RegisterBuiltins(ctx)
//	dir, _ := grove.LoadDirectory(ctx.Assets, "scenes.yaml")
//	mgr := grove.NewSceneManager(ctx, dir)
//	_ = mgr.Init()
//	_ = mgr.EnterStartScene()
//	grove.Run(grove.NewApp(mgr, grove.AppConfig{}), grove.RunConfig{Title: "Game", Width: 640, Height: 480})
//
// # Entities
//
// Every object in a scene is an [Entity]. Entities form a tree; an entity's
// effective activity is its own flag masked by every ancestor
// ([Entity.IsActive]). Behavior is attached by composition: an entity's
// Behavior may implement [Updateable], [FixedUpdateable] and [Renderable],
// and the owning [Layer] subscribes it to the matching per-frame registries.
//
// Entities are never removed while a frame pass is running.
// [Entity.Destroy] and [Entity.DestroyEntityAndChildren] only flag the
// entity; the layer sweeps flagged entities after rendering.
//
// # Scene transitions
//
// [SceneManager.QueueTransition] records a request. The switch happens in
// [SceneManager.Update] only after the active scene's Update has returned,
// so game logic may request a transition from inside its own update.
//
// [Ebitengine]: https://ebitengine.org
package grove
