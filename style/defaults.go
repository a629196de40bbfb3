package style

// DefaultStyleName is the style used for content without explicit style.
const DefaultStyleName = "normal"

// Default returns freshly built default stylesheet: normal, BulletList,
// Title, Subtitle, Heading1 to Heading6 and Footer.
func Default() *Stylesheet {
	normal := MustNew(DefaultStyleName)

	h1 := MustNew("Heading1",
		With("font_name", "Helvetica-Bold"),
		With("font_size", 16),
		With("leading", 16*1.2),
		With("space_before", 6),
		With("space_after", 18),
		With("word_wrap", "LTR"),
		With("allow_widows", false),
		With("allow_orphans", false),
		With("keep_together", true),
	)
	h2 := MustNew("Heading2", BasedOn(h1),
		With("font_size", 14),
		With("leading", 14*1.2),
		With("space_before", 6),
		With("space_after", 16),
	)
	h3 := MustNew("Heading3", BasedOn(h2),
		With("font_name", "Helvetica"),
		With("space_before", 3),
		With("space_after", 12),
	)
	h4 := MustNew("Heading4", BasedOn(h3),
		With("font_name", "Helvetica-Bold"),
		With("font_size", 12),
		With("leading", 12*1.2),
		With("space_before", 3),
		With("space_after", 8),
	)
	h5 := MustNew("Heading5", BasedOn(h4),
		With("font_name", "Helvetica-Oblique"),
	)
	h6 := MustNew("Heading6", BasedOn(h5),
		With("font_name", "Helvetica-Bold"),
		With("font_size", 11),
		With("leading", 11*1.2),
		With("space_before", 3),
		With("space_after", 6),
	)

	title := MustNew("Title",
		With("font_name", "Helvetica-Bold"),
		With("font_size", 18),
		With("leading", 18*1.2),
		With("space_before", 18),
		With("space_after", 18),
		With("word_wrap", "LTR"),
		With("allow_widows", false),
		With("allow_orphans", false),
		With("keep_together", true),
	)
	subtitle := MustNew("Subtitle", BasedOn(title),
		With("font_name", "Helvetica"),
		With("font_size", 14),
		With("leading", 14*1.2),
		With("space_before", 0),
		With("space_after", 12),
	)
	footer := MustNew("Footer", BasedOn(normal),
		With("font_size", 9),
		With("leading", 9*1.2),
	)
	bullets := MustNew("BulletList", BasedOn(normal),
		With("bullet_font_name", "Symbol"),
		With("bullet_font_size", 10),
		With("bullet_indent", 18),
		With("left_indent", 54),
	)

	return NewStylesheet("default", nil,
		normal, bullets, title, subtitle, h1, h2, h3, h4, h5, h6, footer)
}
