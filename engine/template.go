package engine

import (
	"github.com/surveyguy/surveyguy-server/models"
)

// ApplyTemplate instantiates a template's blueprint questions with fresh
// ids. With a nil target it produces a new draft titled after the template;
// with a target it appends the generated questions to the existing draft,
// never touching the questions already there.
//
// Blueprints that would fail ValidateQuestionConfig are inserted anyway:
// template authoring defects surface at publish time, where the error names
// the exact question, not at application time.
func ApplyTemplate(tpl models.Template, target *models.Survey) models.Survey {
	now := timeNow()

	var doc models.Survey
	if target == nil {
		doc = models.Survey{
			ID:          newID(),
			Title:       tpl.Title,
			Description: tpl.Description,
			Status:      models.StatusDraft,
			TemplateID:  &tpl.ID,
			CreatedAt:   now,
		}
	} else {
		doc = cloneDoc(*target)
	}

	for _, blueprint := range tpl.Questions {
		doc.Questions = append(doc.Questions, models.Question{
			ID:           newID(),
			SurveyID:     doc.ID,
			Title:        blueprint.Title,
			Type:         blueprint.Type,
			Required:     blueprint.Required,
			SettingsJSON: blueprint.SettingsJSON,
		})
	}
	renumber(doc.Questions)
	doc.UpdatedAt = now
	return doc
}
