package main

import (
	"image"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/mozaik-game/mozaik"
)

const (
	tileVertexShader = `
    precision highp float;
    attribute vec2 a_position;
    attribute vec2 a_texcoord;
    uniform mat4 u_transform;
    varying vec2 v_texcoord;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 0.0, 1.0);
      v_texcoord = a_texcoord;
    };` + "\x00"
	tileFragmentShader = `
    precision highp float;
    uniform sampler2D u_tex;
    varying vec2 v_texcoord;
    void main(void) {
      gl_FragColor = texture2D(u_tex, v_texcoord);
    };` + "\x00"
	lineVertexShader = `
    precision highp float;
    attribute vec2 a_position;
    uniform mat4 u_transform;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 0.0, 1.0);
    };` + "\x00"
	lineFragmentShader = `
    precision highp float;
    uniform vec4 u_color;
    void main(void) {
      gl_FragColor = u_color;
    };` + "\x00"
)

type TileVertex struct {
	position [2]float32
	texcoord [2]float32
}

// TileView draws a tile arrangement as textured quads, all sampling one
// texture that holds the full source image. Positions are framebuffer
// pixels; u_transform maps them to clip space.
type TileView struct {
	quads       Program
	lines       Program
	tex         Texture
	texSize     mozaik.Size
	a_position  int32
	a_texcoord  int32
	u_transform int32
	u_tex       int32
	l_position  int32
	l_transform int32
	u_color     int32
	vertices    []TileVertex
	outline     [4]float32
}

func CreateTileView() (*TileView, error) {
	quads, err := CreateProgram(tileVertexShader, tileFragmentShader)
	if err != nil {
		return nil, err
	}
	lines, err := CreateProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		quads.Close()
		return nil, err
	}
	tv := &TileView{
		quads:       quads,
		lines:       lines,
		tex:         CreateTexture(),
		a_position:  quads.AttribLocation("a_position\x00"),
		a_texcoord:  quads.AttribLocation("a_texcoord\x00"),
		u_transform: quads.UniformLocation("u_transform\x00"),
		u_tex:       quads.UniformLocation("u_tex\x00"),
		l_position:  lines.AttribLocation("a_position\x00"),
		l_transform: lines.UniformLocation("u_transform\x00"),
		u_color:     lines.UniformLocation("u_color\x00"),
		vertices:    make([]TileVertex, 0, 6*64),
		outline:     [4]float32{1, 1, 1, 1},
	}
	return tv, nil
}

// SetImage uploads img as the tile texture. Call with the context current.
func (tv *TileView) SetImage(img *image.RGBA) {
	tv.tex.Upload(img)
	tv.texSize = img.Bounds().Size()
}

func (tv *TileView) SetOutlineColor(r, g, b, a float32) {
	tv.outline = [4]float32{r, g, b, a}
}

// transform maps framebuffer pixels to clip space: origin at the top
// left corner, y growing downward.
func (tv *TileView) transform() mgl.Mat4 {
	ux := 2.0 / float32(fbSize.X)
	uy := 2.0 / float32(fbSize.Y)
	mScale := mgl.Scale3D(ux, -uy, 1)
	mTranslate := mgl.Translate3D(-1, 1, 0)
	return mTranslate.Mul4(mScale)
}

func (tv *TileView) appendQuad(t mozaik.Tile) {
	x0 := float32(t.Dst.Min.X)
	y0 := float32(t.Dst.Min.Y)
	x1 := float32(t.Dst.Max.X)
	y1 := float32(t.Dst.Max.Y)
	s0 := float32(t.Src.Min.X) / float32(tv.texSize.X)
	s1 := float32(t.Src.Max.X) / float32(tv.texSize.X)
	t0 := float32(t.Src.Min.Y) / float32(tv.texSize.Y)
	t1 := float32(t.Src.Max.Y) / float32(tv.texSize.Y)
	tv.vertices = append(tv.vertices, TileVertex{
		position: [2]float32{x0, y0},
		texcoord: [2]float32{s0, t0},
	})
	tv.vertices = append(tv.vertices, TileVertex{
		position: [2]float32{x0, y1},
		texcoord: [2]float32{s0, t1},
	})
	tv.vertices = append(tv.vertices, TileVertex{
		position: [2]float32{x1, y1},
		texcoord: [2]float32{s1, t1},
	})
	tv.vertices = append(tv.vertices, TileVertex{
		position: [2]float32{x1, y1},
		texcoord: [2]float32{s1, t1},
	})
	tv.vertices = append(tv.vertices, TileVertex{
		position: [2]float32{x1, y0},
		texcoord: [2]float32{s1, t0},
	})
	tv.vertices = append(tv.vertices, TileVertex{
		position: [2]float32{x0, y0},
		texcoord: [2]float32{s0, t0},
	})
}

// Render draws tiles in the given order, then outlines over all of them.
func (tv *TileView) Render(tiles []mozaik.Tile, outlines bool) {
	if len(tiles) == 0 || tv.texSize.X == 0 || tv.texSize.Y == 0 {
		return
	}
	if fbSize.X < 1 || fbSize.Y < 1 {
		return
	}
	tv.vertices = tv.vertices[:0]
	for _, t := range tiles {
		tv.appendQuad(t)
	}
	mTransform := tv.transform()

	tv.quads.Use()
	tv.tex.Bind()
	var activeTexture int32
	gl.GetIntegerv(gl.ACTIVE_TEXTURE, &activeTexture)
	gl.Uniform1i(tv.u_tex, activeTexture-gl.TEXTURE0)
	gl.UniformMatrix4fv(tv.u_transform, 1, false, &mTransform[0])
	gl.EnableVertexAttribArray(uint32(tv.a_position))
	gl.VertexAttribPointer(
		uint32(tv.a_position), 2, gl.FLOAT, false,
		int32(unsafe.Sizeof(TileVertex{})),
		gl.Ptr(&tv.vertices[0].position[0]))
	gl.EnableVertexAttribArray(uint32(tv.a_texcoord))
	gl.VertexAttribPointer(
		uint32(tv.a_texcoord), 2, gl.FLOAT, false,
		int32(unsafe.Sizeof(TileVertex{})),
		gl.Ptr(&tv.vertices[0].texcoord[0]))
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(tv.vertices)))
	gl.Disable(gl.BLEND)
	gl.DisableVertexAttribArray(uint32(tv.a_position))
	gl.DisableVertexAttribArray(uint32(tv.a_texcoord))

	if outlines {
		tv.lines.Use()
		gl.UniformMatrix4fv(tv.l_transform, 1, false, &mTransform[0])
		gl.Uniform4f(tv.u_color, tv.outline[0], tv.outline[1], tv.outline[2], tv.outline[3])
		gl.EnableVertexAttribArray(uint32(tv.l_position))
		for _, t := range tiles {
			corners := [8]float32{
				float32(t.Dst.Min.X), float32(t.Dst.Min.Y),
				float32(t.Dst.Max.X), float32(t.Dst.Min.Y),
				float32(t.Dst.Max.X), float32(t.Dst.Max.Y),
				float32(t.Dst.Min.X), float32(t.Dst.Max.Y),
			}
			gl.VertexAttribPointer(
				uint32(tv.l_position), 2, gl.FLOAT, false, 0,
				gl.Ptr(&corners[0]))
			gl.DrawArrays(gl.LINE_LOOP, 0, 4)
		}
		gl.DisableVertexAttribArray(uint32(tv.l_position))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (tv *TileView) Close() error {
	tv.quads.Close()
	tv.lines.Close()
	tv.tex.Close()
	return nil
}
