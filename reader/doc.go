// Package reader turns input files into [model.Document] values.
//
// Every renderer implements [Renderer]:
//
//	r, err := reader.New(reader.KindNative, reader.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := r.Render(ctx, "report.pdf")
//
// # Renderers
//
//   - [NativeRenderer] - pure Go; glyph runs are grouped into blocks with
//     layout.BlockDetector
//   - [MuPDFRenderer] - runs "mutool draw -F stext.json" and decodes its output
//   - [StextRenderer] - decodes stext JSON that was rendered earlier
//
// [ForFile] picks the stext decoder for JSON input and the given renderer for
// PDFs. [Dispatch] wraps that choice in a Renderer.
//
// # Errors
//
// Every failure is a [*RenderError] and matches [ErrRender]:
//
//	if errors.Is(err, reader.ErrRender) {
//	    var re *reader.RenderError
//	    errors.As(err, &re)
//	    fmt.Println(re.Path, re.Op)
//	}
package reader
