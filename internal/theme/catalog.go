package theme

var builtinThemes = []Theme{
	{
		ID:   "modern",
		Name: "Modern",
		Colors: Palette{
			Primary:    "#2563eb",
			Secondary:  "#1e293b",
			Text:       "#1f2937",
			Background: "#ffffff",
			Accent:     "#3b82f6",
		},
		Layout: LayoutSidebarLeft,
		Fonts:  &FontPairing{Header: "Poppins", Body: "Inter"},
	},
	{
		ID:   "executive",
		Name: "Executive",
		Colors: Palette{
			Primary:    "#0f766e",
			Secondary:  "#134e4a",
			Text:       "#111827",
			Background: "#ffffff",
			Accent:     "#14b8a6",
		},
		Layout: LayoutSidebarRight,
		Fonts:  &FontPairing{Header: "Merriweather", Body: "Source Sans 3"},
	},
	{
		ID:   "classic",
		Name: "Classic",
		Colors: Palette{
			Primary:    "#1f2937",
			Secondary:  "#4b5563",
			Text:       "#111827",
			Background: "#ffffff",
			Accent:     "#374151",
		},
		Layout: LayoutSingleColumn,
	},
	{
		ID:   "minimal",
		Name: "Minimal",
		Colors: Palette{
			Primary:    "#111111",
			Secondary:  "#6b7280",
			Text:       "#171717",
			Background: "#ffffff",
			Accent:     "#a3a3a3",
		},
		Layout: LayoutStacked,
		Fonts:  &FontPairing{Header: "Inter", Body: "Inter"},
	},
	{
		ID:   "elegant",
		Name: "Elegant",
		Colors: Palette{
			Primary:    "#7c2d12",
			Secondary:  "#a16207",
			Text:       "#292524",
			Background: "#fffbf5",
			Accent:     "#b45309",
		},
		Layout: LayoutSingleColumn,
		Fonts:  &FontPairing{Header: "Playfair Display", Body: "Lora"},
	},
	{
		ID:   "creative",
		Name: "Creative",
		Colors: Palette{
			Primary:    "#db2777",
			Secondary:  "#7c3aed",
			Text:       "#1f2937",
			Background: "#ffffff",
			Accent:     "#f472b6",
		},
		Layout:   LayoutBanner,
		Fonts:    &FontPairing{Header: "Montserrat", Body: "Open Sans"},
		Gradient: "linear-gradient(135deg, #db2777 0%, #7c3aed 100%)",
	},
	{
		ID:   "bold",
		Name: "Bold",
		Colors: Palette{
			Primary:    "#dc2626",
			Secondary:  "#111827",
			Text:       "#111827",
			Background: "#ffffff",
			Accent:     "#ef4444",
		},
		Layout: LayoutBanner,
		Fonts:  &FontPairing{Header: "Oswald", Body: "Roboto"},
	},
	{
		ID:   "tech",
		Name: "Tech",
		Colors: Palette{
			Primary:    "#059669",
			Secondary:  "#0f172a",
			Text:       "#0f172a",
			Background: "#ffffff",
			Accent:     "#10b981",
		},
		Layout: LayoutGridComplex,
		Fonts:  &FontPairing{Header: "JetBrains Mono", Body: "Inter"},
	},
	{
		ID:   "midnight",
		Name: "Midnight",
		Colors: Palette{
			Primary:    "#38bdf8",
			Secondary:  "#0f172a",
			Text:       "#e2e8f0",
			Background: "#0b1120",
			Accent:     "#38bdf8",
		},
		Layout: LayoutSidebarLeft,
		Fonts:  &FontPairing{Header: "Space Grotesk", Body: "Inter"},
	},
	{
		ID:   "aurora",
		Name: "Aurora",
		Colors: Palette{
			Primary:    "#6366f1",
			Secondary:  "#0ea5e9",
			Text:       "#1e1b4b",
			Background: "#ffffff",
			Accent:     "#a5b4fc",
		},
		Layout:   LayoutGridComplex,
		Gradient: "linear-gradient(120deg, #6366f1 0%, #0ea5e9 100%)",
	},
	{
		ID:   "pastel",
		Name: "Pastel",
		Colors: Palette{
			Primary:    "#fde68a",
			Secondary:  "#a7f3d0",
			Text:       "#374151",
			Background: "#ffffff",
			Accent:     "#fde68a",
		},
		Layout: LayoutSidebarRight,
	},
}

var builtinOverrides = map[string]Overrides{
	"bold":     {Title: TitleDoubleRule},
	"elegant":  {Title: TitleCenteredSerif, HeaderAlign: AlignCenter},
	"classic":  {HeaderAlign: AlignCenter},
	"creative": {PhotoFrame: "1mm solid #ffffff"},
	"midnight": {Dark: true},
}

var defaultRegistry = NewRegistry(builtinThemes, builtinOverrides)
