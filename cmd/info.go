package cmd

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

// Info builds a scene and prints what it contains.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	setup, name, err := loadSetup(ctx)
	if err != nil {
		return err
	}
	setup.Scene.Build()

	logger.Noticef("scene %q\n%s", name, sceneInfo(setup))
	return nil
}

// sceneInfo formats the camera, the object census and the BVH statistics as tables
func sceneInfo(setup *scene.Setup) string {
	var buf bytes.Buffer
	stats := setup.Scene.Stats()

	view := tablewriter.NewWriter(&buf)
	view.SetAutoFormatHeaders(false)
	view.SetHeader([]string{"Eye", "Look at", "FOV", "Aperture", "Resolution"})
	view.Append([]string{
		fmt.Sprintf("%.2f %.2f %.2f", setup.Eye.X, setup.Eye.Y, setup.Eye.Z),
		fmt.Sprintf("%.2f %.2f %.2f", setup.LookAt.X, setup.LookAt.Y, setup.LookAt.Z),
		fmt.Sprintf("%.1f", setup.FOV),
		fmt.Sprintf("%g", setup.Aperture),
		fmt.Sprintf("%dx%d", setup.Width, setup.Height),
	})
	view.Render()

	objects := tablewriter.NewWriter(&buf)
	objects.SetAutoFormatHeaders(false)
	objects.SetHeader([]string{"Type", "Count", "Emission profiles"})
	census := objectCensus(setup.Scene.Objects())
	types := make([]string, 0, len(census))
	for typ := range census {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		objects.Append([]string{typ, fmt.Sprintf("%d", census[typ][0]), fmt.Sprintf("%d", census[typ][1])})
	}
	objects.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", stats.Objects), fmt.Sprintf("%d", stats.Emitters)})
	objects.Render()

	accel := tablewriter.NewWriter(&buf)
	accel.SetAutoFormatHeaders(false)
	accel.SetHeader([]string{"Bounded", "Unbounded", "Triangles", "BVH nodes", "BVH leaves", "BVH depth"})
	accel.Append([]string{
		fmt.Sprintf("%d", stats.Bounded),
		fmt.Sprintf("%d", stats.Unbounded),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%d", stats.BVH.Nodes),
		fmt.Sprintf("%d", stats.BVH.Leaves),
		fmt.Sprintf("%d", stats.BVH.MaxDepth),
	})
	accel.Render()

	return buf.String()
}

// objectCensus counts objects and emission profiles per object type
func objectCensus(objects []geometry.Object) map[string][2]int {
	census := make(map[string][2]int)
	for _, obj := range objects {
		typ := strings.TrimPrefix(fmt.Sprintf("%T", obj), "*geometry.")
		entry := census[typ]
		entry[0]++
		if emitter, ok := obj.(geometry.Emitter); ok {
			entry[1] += len(emitter.EmissionProfiles())
		}
		census[typ] = entry
	}
	return census
}
