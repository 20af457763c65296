// Package debugdraw provides an immediate-mode debug drawing interface for
// simulations and engines.
//
// # Overview
//
// A Context records draw calls (lines, rays, spheres, text, axes and so
// on) as commands. Every command is stamped with a copy of the current
// render state: color, arrow settings, render flags, the global pose and
// the active draw group. Commands stay in local coordinates; their world
// position is resolved when a frame is rendered.
//
// # Quick Start
//
//	import "github.com/gogpu/debugdraw"
//
//	dc := debugdraw.New()
//	defer dc.Release()
//
//	dc.SetCurrentColor(debugdraw.RGB(255, 0, 0), debugdraw.RGB(255, 255, 0))
//	dc.DebugSphere(mgl32.Vec3{0, 1, 0}, 0.5, debugdraw.DefaultSphereSubdivision)
//	dc.DebugText(mgl32.Vec3{0, 2, 0}, "t = %.2f", debugdraw.FloatArg(t))
//
//	frame := dc.EndFrame()
//	frame.Playback(backend, dc.Camera())
//
// # Draw Groups
//
// A draw group is a re-posable batch of commands. Geometry drawn while a
// group is active is kept across frames and rendered as
//
//	global pose · group pose · local geometry
//
// so an articulated body can be drawn once and animated by revising one
// pose per group:
//
//	id := dc.BeginDrawGroup(mgl32.Ident4())
//	dc.DebugCylinder(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0.05)
//	dc.EndDrawGroup()
//
//	for {
//	    dc.SetDrawGroupPose(id, boneMatrix())
//	    dc.EndFrame()
//	}
//
// Ending a group, or beginning another one, restores the global pose that
// was current when the group began. ReleaseDrawGroup drops its commands.
//
// # Render State
//
// PushRenderState and PopRenderState save and restore the full render
// state, including the global pose, the active draw group and the camera.
// Scope pairs them around a function.
//
// # Camera
//
// View and projection matrices are local: they are used to orient quads
// and text when rendering and are never stored in commands or sent to a
// remote viewer.
//
// # Errors
//
// Draw calls do not return errors and never panic. Unknown draw groups,
// non-finite values and bad format directives are replaced by safe
// defaults and reported through Logger and the handler set with
// WithErrorHandler.
//
// # Rendering
//
// Frame.Playback tessellates commands into world-space lines and triangles
// for a Backend. Backends register by name, database/sql style; see
// package backends/raster for a software renderer and package remote for
// relaying frames to another process.
package debugdraw
