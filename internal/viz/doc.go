// Package viz renders lesson frames for the terminal.
//
//   - [Canvas]: braille sub-pixel grid with per-cell ink and a label overlay
//   - [Camera] and [RenderScene]: wireframe projection of a scene
//   - [CodePanel] and [Prose]: highlighted source and explanation text
//   - [Theme]: five colour schemes shared with the SVG and window renderers
package viz
