package policy

import (
	"github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// Action names every permission-gated operation.
type Action string

const (
	ActionProjectCreate   Action = "project.create"
	ActionProjectUpdate   Action = "project.update"
	ActionProjectArchive  Action = "project.archive"
	ActionProjectRead     Action = "project.read"
	ActionVolunteerCreate Action = "volunteer.create"
	ActionVolunteerUpdate Action = "volunteer.update"
	ActionVolunteerDelete Action = "volunteer.delete"
	ActionVolunteerRead   Action = "volunteer.read"
	ActionUserManage      Action = "user.manage"
	ActionAuditRead       Action = "audit.read"
	ActionReportExport    Action = "report.export"
)

// Actor is the authenticated principal evaluated against the rule table.
type Actor struct {
	ID   int64
	Role model.UserRole
}

// Resource carries the ownership facts a rule may consult. Zero values mean
// "not applicable" for the action at hand.
type Resource struct {
	ProjectResponsibleID int64
	ProjectStatus        model.ProjectStatus
	VolunteerRegistrarID int64
	// TargetStatus is the status a project update would set, when known.
	TargetStatus model.ProjectStatus
}

// Evaluator applies the ordered permission rules. It is stateless; one
// instance is shared by all usecases.
type Evaluator struct{}

// NewEvaluator creates the policy evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// CanPerform returns nil when the actor may perform the action on the
// resource, or a Forbidden error carrying the attempted action and role.
// Rules are evaluated in precedence order; the first match wins.
func (e *Evaluator) CanPerform(actor Actor, action Action, res Resource) error {
	// Rule 1: Administrators are always permitted.
	if actor.Role == model.RoleAdministrator {
		return nil
	}

	switch action {
	case ActionProjectRead, ActionVolunteerRead:
		// All roles may read projects and volunteers.
		return nil

	case ActionProjectArchive:
		// Rule 2: archiving is Quality's only write permission, and the
		// responsible user may archive their own project (rule 3).
		if actor.Role == model.RoleQuality {
			return nil
		}
		if actor.Role == model.RoleUser && actor.ID == res.ProjectResponsibleID {
			return nil
		}

	case ActionProjectCreate:
		// Rule 3: a User may create a project they are responsible for.
		if actor.Role == model.RoleUser && actor.ID == res.ProjectResponsibleID {
			return nil
		}

	case ActionProjectUpdate:
		// Rule 2: Quality may update only when the update archives.
		if actor.Role == model.RoleQuality && res.TargetStatus == model.ProjectStatusArchived {
			return nil
		}
		// Rule 3: the responsible User may update their own project.
		if actor.Role == model.RoleUser && actor.ID == res.ProjectResponsibleID {
			return nil
		}

	case ActionVolunteerCreate:
		// Rule 4: project responsible only; archived projects are frozen
		// upstream via state checks, not here.
		if actor.Role == model.RoleUser && actor.ID == res.ProjectResponsibleID {
			return nil
		}

	case ActionVolunteerUpdate, ActionVolunteerDelete:
		// Rule 4: the project's responsible user or the volunteer's
		// registering user.
		if actor.Role == model.RoleUser &&
			(actor.ID == res.ProjectResponsibleID || actor.ID == res.VolunteerRegistrarID) {
			return nil
		}

	case ActionAuditRead:
		// Rule 5: Quality reads everything, Users have no audit access.
		if actor.Role == model.RoleQuality {
			return nil
		}

	case ActionReportExport:
		// Exports are reads; Quality and the responsible user qualify.
		if actor.Role == model.RoleQuality {
			return nil
		}
		if actor.Role == model.RoleUser && actor.ID == res.ProjectResponsibleID {
			return nil
		}

	case ActionUserManage:
		// Administrator only, handled by rule 1.
	}

	// Rule 6: everything else is denied.
	return errors.NewForbiddenError(string(action), string(actor.Role))
}
