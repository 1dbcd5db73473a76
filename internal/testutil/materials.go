package testutil

import (
	"os"
	"path/filepath"
)

// SourcePages lists the sample source PDFs and their page counts.
var SourcePages = map[string]int{
	"GLS_Intermediate_Macro.pdf":  12,
	"rbc_extensions_sp17.pdf":     4,
	"rbc_notes_2017.pdf":          6,
	"stylized_facts_rbc_sp17.pdf": 3,
	"uribe-notes.pdf":             5,
}

// LessonPlanCSV is a sample lesson plan. Rows are deliberately out of week
// order and leave some page bounds empty.
const LessonPlanCSV = `Week,Date,Topic,Reference,Chapter,Page_Start,Page_End,Notes
2,Sept-20-2023,Real Business Cycles,S1,,,,
1,Sept-13-2023,Growth,GLS,2,3,5,read first
1,Sept-13-2023,Growth,U,,,,
2,Sept-20-2023,Real Business Cycles,S2,,2,,
3,Sept-27-2023,Extensions,SE,,,,
3,Sept-27-2023,Extensions,GLS,7,10.0,12.0,
`

// ReferencesYAML maps the sample lesson plan keys to source files.
const ReferencesYAML = `GLS: GLS_Intermediate_Macro.pdf
U: uribe-notes.pdf
S1: rbc_notes...
S2: stylized_facts_rbc_sp17.pdf
SE: RBC_EXTENSIONS_SP17.PDF
`

// BibTeX holds an entry for every sample reference plus one unused entry.
const BibTeX = `@book{GLS,
  author = {Garin, Julio and Lester, Robert and Sims, Eric},
  title = {Intermediate Macroeconomics},
  publisher = {Self-published},
  year = {2018},
  url = {https://www3.nd.edu/~esims1/gls_int_macro.pdf}
}

@misc{U,
  author = {Uribe, Martin},
  title = {Lecture Notes on Open Economy Macroeconomics},
  howpublished = {Columbia University},
  year = {2017}
}

@misc{S1,
  author = {Sims, Eric},
  title = {notes on the real business cycle model},
  howpublished = {University of Notre Dame},
  year = {2017}
}

@misc{S2,
  author = {Sims, Eric},
  title = {Stylized Facts},
  howpublished = {University of Notre Dame},
  year = {2017}
}

@misc{SE,
  author = {Sims, Eric},
  title = {Extensions of the RBC Model},
  howpublished = {University of Notre Dame},
  year = {2017}
}

@article{KP,
  author = {Kydland, Finn E. and Prescott, Edward C.},
  title = {Time to Build and Aggregate Fluctuations},
  journal = {Econometrica},
  year = {1982},
  volume = {50},
  number = {6},
  pages = {1345--1370}
}
`

// Materials is a sample project laid out the conventional way.
type Materials struct {
	Root         string
	LessonPlan   string
	Sources      string
	Bibliography string
	References   string
	Output       string
}

// NewMaterials writes the sample lesson plan, reference map, bibliography
// and source PDFs into a fresh temp directory.
func NewMaterials(t TestingT) Materials {
	t.Helper()

	root := t.TempDir()
	m := Materials{
		Root:         root,
		LessonPlan:   filepath.Join(root, "lesson_plan.csv"),
		Sources:      filepath.Join(root, "pdfs"),
		Bibliography: filepath.Join(root, "bibtex.bib"),
		References:   filepath.Join(root, "ref_to_file.yaml"),
		Output:       filepath.Join(root, "output", "textbook.pdf"),
	}

	files := map[string]string{
		m.LessonPlan:   LessonPlanCSV,
		m.References:   ReferencesYAML,
		m.Bibliography: BibTeX,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	for name, pages := range SourcePages {
		WritePDF(t, filepath.Join(m.Sources, name), pages)
	}
	return m
}
