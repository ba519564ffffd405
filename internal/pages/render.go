package pages

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/javeriana-conecta/conecta-web/internal/models"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func renderTemplates(out io.Writer, list []models.LatexTemplate) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No hay plantillas")
		return
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNOMBRE\tFACULTAD\tCARRERA\tESTILO\tDESTACADA")
	for _, t := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Faculty, t.CareerCode, t.Style, yesNo(t.IsFeatured))
	}
	_ = w.Flush()
}

func renderTemplate(out io.Writer, t *models.LatexTemplate) {
	w := newTable(out)
	fmt.Fprintf(w, "ID\t%d\n", t.ID)
	fmt.Fprintf(w, "Nombre\t%s\n", t.Name)
	fmt.Fprintf(w, "Facultad\t%s\n", t.Faculty)
	fmt.Fprintf(w, "Carrera\t%s\n", t.CareerCode)
	fmt.Fprintf(w, "Estilo\t%s\n", t.Style)
	fmt.Fprintf(w, "Versión\t%s\n", t.Version)
	fmt.Fprintf(w, "Campos requeridos\t%s\n", requiredFieldsText(t.RequiredFields))
	if t.Description != "" {
		fmt.Fprintf(w, "Descripción\t%s\n", t.Description)
	}
	if t.PreviewPDFURL != "" {
		fmt.Fprintf(w, "Vista previa\t%s\n", t.PreviewPDFURL)
	}
	_ = w.Flush()
}

func renderResumes(out io.Writer, list []models.GeneratedResume) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No hay CVs")
		return
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tTÍTULO\tPLANTILLA\tESTADO\tFAVORITO\tCREADO")
	for _, r := range list {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n", r.ID, r.Title, r.TemplateID, r.GenerationStatus.Label(), yesNo(r.IsFavorite), dateText(r))
	}
	_ = w.Flush()
}

func renderResume(out io.Writer, r *models.GeneratedResume) {
	w := newTable(out)
	fmt.Fprintf(w, "ID\t%d\n", r.ID)
	fmt.Fprintf(w, "Título\t%s\n", r.Title)
	fmt.Fprintf(w, "Plantilla\t%d\n", r.TemplateID)
	fmt.Fprintf(w, "Estado\t%s\n", r.GenerationStatus.Label())
	fmt.Fprintf(w, "Versión\t%s\n", r.Version)
	if r.Notes != "" {
		fmt.Fprintf(w, "Notas\t%s\n", r.Notes)
	}
	if r.S3URL != "" {
		fmt.Fprintf(w, "PDF\t%s\n", r.S3URL)
	}
	_ = w.Flush()
}

func requiredFieldsText(fields []string) string {
	if len(fields) == 0 {
		return "Ninguno"
	}
	return strings.Join(fields, ", ")
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

func dateText(r models.GeneratedResume) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Format("2006-01-02")
}
