// objtool is a CLI utility for inspecting Wavefront OBJ models.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/objloader/internal/config"
	"github.com/Faultbox/objloader/internal/logger"
	"github.com/Faultbox/objloader/internal/texture"
	"github.com/Faultbox/objloader/pkg/wavefront"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "info", "meshes", "materials", "bounds", "textures":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := config.ParseFlags(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	args := config.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: objtool %s [flags] <file.obj>\n", command)
		os.Exit(1)
	}

	cfg, err := config.Load(filepath.Dir(args[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	model, err := wavefront.LoadWithOptions(args[0], wavefront.LoadOptions{
		Scale:  cfg.Loader.Scale,
		Strict: cfg.Loader.Strict,
		Logger: logger.Log,
	})
	if err != nil {
		logger.Error("failed to load model", zap.String("path", args[0]), zap.Error(err))
		os.Exit(1)
	}

	switch command {
	case "info":
		cmdInfo(model)
	case "meshes":
		cmdMeshes(model)
	case "materials":
		cmdMaterials(model)
	case "bounds":
		cmdBounds(model)
	case "textures":
		if err := cmdTextures(model, cfg); err != nil {
			logger.Error("texture binding failed", zap.Error(err))
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ model utility

Usage:
  objtool <command> [flags] <file.obj>

Commands:
  info       Show mesh, material and vertex totals
  meshes     List meshes with vertex/triangle counts and material
  materials  List materials with colours and texture paths
  bounds     Print the axis-aligned bounding box
  textures   Decode referenced textures and print their handles

Flags:
  -config <path>   Config file (default: ./objtool.yaml, then objtool.yaml
                   next to the model, then the user config directory)
  -scale <f>       Position scale factor (default 0.05)
  -strict          Fail on the first malformed line
  -no-textures     Skip texture decoding
  -debug           Enable debug logging
  -log-file <path> Also write logs to a rotating file

Examples:
  objtool info models/crate.obj
  objtool bounds -scale 1 models/crate.obj`)
}

func cmdInfo(model *wavefront.Model) {
	fmt.Printf("Path:      %s\n", model.Path())
	fmt.Printf("Meshes:    %d\n", model.MeshCount())
	fmt.Printf("Materials: %d\n", model.MaterialCount())
	fmt.Printf("Vertices:  %d\n", model.VertexCount())
	fmt.Printf("Triangles: %d\n", model.TriangleCount())

	warnings := model.WarningList()
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("Warnings:  %d\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("  %v\n", w)
	}
}

func cmdMeshes(model *wavefront.Model) {
	for i := 0; i < model.MeshCount(); i++ {
		mesh := model.MeshByIndex(i)
		name := mesh.Name
		if name == "" {
			name = "(unnamed)"
		}
		matName := "-"
		if mat := mesh.Material(); mat != nil {
			matName = mat.Name
		}
		fmt.Printf("%3d  %-24s verts=%-6d tris=%-6d material=%s\n",
			i, name, len(mesh.Vertices), mesh.TriangleCount(), matName)
	}
}

func cmdMaterials(model *wavefront.Model) {
	for i := 0; i < model.MaterialCount(); i++ {
		mat := model.MaterialByIndex(i)
		fmt.Printf("%s\n", mat.Name)
		fmt.Printf("  Ka %.3f %.3f %.3f  Ni %.3f\n", mat.Ambient[0], mat.Ambient[1], mat.Ambient[2], mat.RefractiveIndex())
		fmt.Printf("  Kd %.3f %.3f %.3f  d  %.3f\n", mat.Diffuse[0], mat.Diffuse[1], mat.Diffuse[2], mat.Opacity())
		fmt.Printf("  Ks %.3f %.3f %.3f  Ns %.3f\n", mat.Specular[0], mat.Specular[1], mat.Specular[2], mat.SpecularExponent())
		for slot := wavefront.TextureType(0); slot < wavefront.TextureTypeCount; slot++ {
			if mat.HasTexture(slot) {
				fmt.Printf("  %-8s %s\n", slot, mat.TexturePaths[slot])
			}
		}
	}
}

func cmdBounds(model *wavefront.Model) {
	lo, hi := model.Bounds()
	if wavefront.EmptyBounds(lo, hi) {
		fmt.Println("No positions")
		return
	}
	size := hi.Sub(lo)
	fmt.Printf("Min:  %.4f %.4f %.4f\n", lo[0], lo[1], lo[2])
	fmt.Printf("Max:  %.4f %.4f %.4f\n", hi[0], hi[1], hi[2])
	fmt.Printf("Size: %.4f %.4f %.4f\n", size[0], size[1], size[2])
}

func cmdTextures(model *wavefront.Model, cfg *config.Config) error {
	if !cfg.Textures.Load {
		fmt.Println("Texture loading disabled")
		return nil
	}

	mgr := texture.NewManager(nil, logger.Log)
	if err := texture.BindModel(model, mgr, cfg.Textures.SkipMissing); err != nil {
		if !cfg.Textures.SkipMissing {
			return err
		}
		logger.Warn("some textures were skipped", zap.Error(err))
	}
	defer texture.ReleaseModel(model, mgr)

	for i := 0; i < model.MaterialCount(); i++ {
		mat := model.MaterialByIndex(i)
		for slot := wavefront.TextureType(0); slot < wavefront.TextureTypeCount; slot++ {
			if !mat.HasTexture(slot) {
				continue
			}
			h := mat.TextureHandles[slot]
			size := "missing"
			if tex := mgr.Texture(h); tex != nil {
				b := tex.Image.Bounds()
				size = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
			}
			fmt.Printf("%-16s %-8s handle=%-3d %-9s %s\n", mat.Name, slot, h, size, mat.TexturePaths[slot])
		}
	}
	fmt.Printf("Unique textures: %d\n", mgr.Len())
	return nil
}
