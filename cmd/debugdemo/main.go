// Command debugdemo animates a jointed arm with debugdraw draw groups and
// writes the last frame as a PNG.
//
// The arm geometry is emitted once, one draw group per bone; every frame
// only re-poses the groups. With -remote the frames are also relayed to a
// viewer, and with -listen the command acts as that viewer, writing each
// received frame to the output file.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gogpu/debugdraw"
	"github.com/gogpu/debugdraw/backends/raster"
	"github.com/gogpu/debugdraw/remote"
)

var boneLengths = []float32{1.0, 0.8, 0.6}

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "debugdemo.png", "output file")
		frames  = flag.Int("frames", 60, "number of frames to animate")
		config  = flag.String("config", "", "TOML config file")
		remoteA = flag.String("remote", "", "viewer websocket URL, e.g. ws://localhost:8090/debugdraw")
		listen  = flag.String("listen", "", "run as viewer on this address, e.g. :8090")
		verbose = flag.Bool("v", false, "log library diagnostics")
	)
	flag.Parse()

	if *verbose {
		debugdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cam := camera(*width, *height)
	if *listen != "" {
		serve(*listen, cam, *width, *height, *output)
		return
	}

	opts := []debugdraw.Option{
		debugdraw.WithErrorHandler(func(err error) { log.Printf("debugdraw: %v", err) }),
	}
	if *config != "" {
		cfg, err := debugdraw.LoadConfig(*config)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = append(opts, debugdraw.WithConfig(cfg))
	}
	if *remoteA != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := remote.Dial(ctx, *remoteA)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		opts = append(opts, debugdraw.WithSink(client))
	}

	dc := debugdraw.New(opts...)
	defer dc.Release()
	dc.SetViewMatrix(cam.View)
	dc.SetProjectionMatrix(cam.Projection)

	bones := drawArm(dc)
	var last *debugdraw.Frame
	for i := range *frames {
		poseArm(dc, bones, float32(i)/30)
		drawScene(dc, i)
		last = dc.EndFrame()
	}
	if last == nil {
		log.Fatal("No frame rendered")
	}

	backend := raster.NewBackend(raster.WithSize(*width, *height))
	if err := last.Playback(backend, dc.Camera()); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := backend.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d, %s)\n", *output, *width, *height, last)
}

func camera(w, h int) debugdraw.CameraView {
	view := mgl32.LookAtV(mgl32.Vec3{3, 2.5, 4}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), float32(w)/float32(h), 0.1, 100)
	return debugdraw.CameraView{View: view, Projection: proj, ViewProjection: proj.Mul4(view)}
}

// drawArm emits the geometry of every bone once, each in its own group
// and in bone-local coordinates with +Y along the bone.
func drawArm(dc *debugdraw.Context) []debugdraw.GroupID {
	bones := make([]debugdraw.GroupID, len(boneLengths))
	for i, l := range boneLengths {
		bones[i] = dc.BeginDrawGroup(mgl32.Ident4())

		dc.SetCurrentColor(dc.DebugColor(debugdraw.ColorLightBlue), dc.DebugColor(debugdraw.ColorYellow))
		dc.DebugSphere(mgl32.Vec3{}, 0.08, debugdraw.DefaultSphereSubdivision)
		dc.DebugCylinder(mgl32.Vec3{}, mgl32.Vec3{0, l, 0}, 0.04)
		dc.DebugAxes(debugdraw.IdentityTransform(), debugdraw.AxesOptions{Distance: 0.25, ShowXYZ: i == 0})

		dc.SetCurrentColor(dc.DebugColor(debugdraw.ColorWhite), dc.DebugColor(debugdraw.ColorYellow))
		dc.SetTextScale(0.08)
		dc.DebugText(mgl32.Vec3{0.1, l / 2, 0}, "bone %d (%.1fm)", debugdraw.IntArg(int64(i)), debugdraw.FloatArg(float64(l)))

		dc.EndDrawGroup()
	}
	return bones
}

// poseArm re-poses the bone groups by forward kinematics.
func poseArm(dc *debugdraw.Context, bones []debugdraw.GroupID, t float32) {
	world := mgl32.Ident4()
	for i, id := range bones {
		angle := 0.6 * float32(i+1) * math32.Sin(t*float32(i+1))
		world = world.Mul4(mgl32.HomogRotate3DZ(angle))
		dc.SetDrawGroupPose(id, world)
		world = world.Mul4(mgl32.Translate3D(0, boneLengths[i], 0))
	}
}

// drawScene emits the per-frame decoration outside any draw group.
func drawScene(dc *debugdraw.Context, frame int) {
	dc.Scope(func() {
		dc.SetCurrentColor(dc.DebugColor(debugdraw.ColorDarkGray), dc.DebugColor(debugdraw.ColorGray))
		for i := -4; i <= 4; i++ {
			f := float32(i) / 2
			dc.DebugLine(mgl32.Vec3{f, 0, -2}, mgl32.Vec3{f, 0, 2})
			dc.DebugLine(mgl32.Vec3{-2, 0, f}, mgl32.Vec3{2, 0, f})
		}

		dc.SetCurrentColor(dc.DebugColor(debugdraw.ColorOrange), dc.DebugColor(debugdraw.ColorOrange))
		probe := mgl32.LookAtV(mgl32.Vec3{-1.5, 1, 1.5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
		dc.DebugFrustum(probe, mgl32.Perspective(mgl32.DegToRad(30), 1, 0.2, 1))

		dc.SetCurrentColor(dc.DebugColor(debugdraw.ColorGreen), dc.DebugColor(debugdraw.ColorGreen))
		dc.SetTextScale(0.12)
		dc.DebugText(mgl32.Vec3{-2, 2.5, 0}, "frame %d", debugdraw.IntArg(int64(frame)))
	})
}

// serve runs a viewer that renders every received frame to output.
func serve(addr string, cam debugdraw.CameraView, w, h int, output string) {
	var mu sync.Mutex
	backend := raster.NewBackend(raster.WithSize(w, h))
	viewer := remote.NewViewer(func(session uuid.UUID, f *debugdraw.Frame) {
		mu.Lock()
		defer mu.Unlock()
		if err := f.Playback(backend, cam); err != nil {
			log.Printf("Failed to render %s: %v", session, err)
			return
		}
		if err := backend.SavePNG(output); err != nil {
			log.Printf("Failed to save: %v", err)
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/debugdraw", viewer)
	log.Printf("Viewer listening on %s/debugdraw, writing %s", addr, output)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	log.Fatal(server.ListenAndServe())
}
