package main

import (
	"os"
	"time"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/config"
	"github.com/bloeys/nrender/engine"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/gfx"
	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/materials"
	"github.com/bloeys/nrender/shaders"
	"github.com/spf13/pflag"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	clearColor = colors.FromSRGB8(20, 24, 32, 255)
)

type Demo struct {
	Win *engine.Window
	Ctx *gfx.Context

	triangle    geometry.Geometry
	triangleMat *materials.Material
	triangleTr  gglm.TrMat

	grid    geometry.Geometry
	gridMat *materials.Material

	grayscale bool
}

func main() {

	configPath := pflag.StringP("config", "c", "", "YAML config file, defaults are used when empty")
	dataDir := pflag.StringP("data", "d", "", "content directory, overrides content.data_dir")
	watch := pflag.Bool("watch", false, "reload shaders when their files change")
	noGrayscale := pflag.Bool("no-grayscale", false, "present the scene without the grayscale postprocess")
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {

		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logging.ErrLog.Fatalln("Failed to load config. Err:", err)
		}
	}

	if pflag.CommandLine.Changed("data") {
		cfg.Content.DataDir = *dataDir
	}

	if *watch {
		cfg.Content.WatchShaders = true
	}

	// The built-in shaders are enough for the demo
	if _, err := os.Stat(cfg.Content.DataDir); err != nil {
		logging.WarnLog.Printf("Content directory '%s' not usable, only built-in content is available. Err: %s\n", cfg.Content.DataDir, err)
		cfg.Content.DataDir = ""
		cfg.Content.WatchShaders = false
	}

	if err := engine.Init(); err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err:", err)
	}
	defer engine.Quit()

	win, err := engine.CreateOpenGLWindowCentered(cfg.Window.Title, int32(cfg.Window.Width), int32(cfg.Window.Height), engine.WindowFlags_RESIZABLE|engine.WindowFlags_ALLOW_HIGHDPI)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err:", err)
	}
	defer win.Destroy()

	engine.SetVSync(cfg.Window.VSync)

	// Released before the window, which owns the GL context
	ctx, err := gfx.New(win.Device, cfg, win)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create render context. Err:", err)
	}
	defer ctx.Release()

	demo := &Demo{
		Win:       win,
		Ctx:       ctx,
		grayscale: !*noGrayscale,
	}

	if err := demo.Init(); err != nil {
		logging.ErrLog.Fatalln("Failed to init demo. Err:", err)
	}

	demo.Run()
}

func (d *Demo) Init() error {

	litProg, err := d.Ctx.Shader("lit", "lit")
	if err != nil {
		return err
	}

	d.triangle = geometry.Triangle()
	d.triangleTr = gglm.NewTrMatId()
	d.triangleMat = materials.NewMaterial("triangle", litProg)
	d.triangleMat.Settings.Set(materials.MaterialSettings_HasModelMtx)
	d.triangleMat.State.NoCull()
	d.triangleMat.SetParam("color", shaders.Color(colors.FromSRGB8(230, 120, 60, 255)))

	solidProg, err := d.Ctx.Shader("solid_color.vs", "solid_color.fs")
	if err != nil {
		return err
	}

	d.grid = geometry.Grid()
	d.gridMat = materials.NewMaterial("grid", solidProg)
	d.gridMat.Settings.Set(materials.MaterialSettings_HasModelMtx)
	d.gridMat.SetModelMat(gglm.NewMat4Diag(1))
	d.gridMat.SetParam("color", shaders.Color(colors.White))

	lightDir := gglm.NewVec3(-0.4, -1, -0.6)
	d.Ctx.Store.Set("lightDir", shaders.Vec3(lightDir))
	return nil
}

func (d *Demo) Run() {

	lastFrame := time.Now()
	for !d.Win.PollQuit() {

		// G toggles the grayscale pass
		if d.Win.Keyboard.KeyClicked(sdl.K_g) {
			d.grayscale = !d.grayscale
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		if err := d.Frame(dt); err != nil {
			logging.ErrLog.Println("Frame failed. Err:", err)
			return
		}

		d.Win.Swap()
	}
}

func (d *Demo) Frame(dt float32) error {

	d.Ctx.BeginFrame()
	d.updateCamera()

	scene := d.Ctx.Framebuffer("#main")
	if _, err := scene.Color(); err != nil {
		return err
	}

	if _, err := scene.Depth(); err != nil {
		return err
	}

	if err := scene.Clear(clearColor); err != nil {
		return err
	}

	d.triangleTr.Rotate(45*gglm.Deg2Rad*dt, 0, 1, 0)
	d.triangleMat.SetModelMat(d.triangleTr.Mat4)

	err := d.Ctx.Geometry(&d.triangle).Material(d.triangleMat).Render()
	if err != nil {
		return err
	}

	err = d.Ctx.Geometry(&d.grid).Material(d.gridMat).Render()
	if err != nil {
		return err
	}

	if !d.grayscale {
		return scene.Present()
	}

	err = d.Ctx.Postprocess("#main").With("grayscale").Resulting("#gray")
	if err != nil {
		return err
	}

	return d.Ctx.Framebuffer("#gray").Present()
}

func (d *Demo) updateCamera() {

	w, h := d.Win.Size()
	if w == 0 || h == 0 {
		return
	}

	pos := gglm.NewVec3(0, 1.5, 3)
	target := gglm.NewVec3(0, 0, 0)
	up := gglm.NewVec3(0, 1, 0)

	projMat := gglm.Perspective(45*gglm.Deg2Rad, float32(w)/float32(h), 0.1, 100)
	viewMat := gglm.LookAtRH(&pos, &target, &up).Mat4

	d.Ctx.Store.Set("projViewMat", shaders.Mat4(*projMat.Mul(&viewMat)))
}
