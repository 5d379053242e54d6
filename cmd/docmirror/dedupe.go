package main

import (
	"github.com/docmirror/docmirror"
)

// Run executes the dedupe command.
func (c *DedupeCmd) Run(deps *Dependencies) error {
	plan, err := deps.Reconciler.Plan(c.By)
	if err != nil {
		return err
	}

	for _, s := range plan.Skipped {
		deps.Out.dimf("skipping %s: %s", s.Filename, s.Reason)
	}

	if len(plan.Groups) == 0 {
		deps.Out.infof("No duplicates found among %d documents", plan.Scanned)
		return nil
	}

	for _, g := range plan.Groups {
		note := ""
		if g.Identical {
			note = " (identical content)"
		}
		deps.Out.boldf("%s%s", g.Key, note)
		for _, m := range g.Members {
			if m.Keep {
				deps.Out.plainf("  %s %s  %s", colorSuccess("keep  "), m.Filename, colorDim(m.SourceURL))
			} else {
				deps.Out.plainf("  %s %s  %s", colorError("remove"), m.Filename, colorDim(m.SourceURL))
			}
		}
	}

	if !c.Apply {
		deps.Out.infof("%d duplicate(s) would be removed. Re-run with --apply to delete.", len(plan.Removals))
		return nil
	}

	res, err := deps.Reconciler.Apply(deps.Ctx, plan)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		deps.Out.failed(e.Filename, e.Reason)
	}
	deps.Out.boldf("Removed %d duplicate(s), dropped %d index entries",
		len(res.Removed), res.IndexDropped)
	if len(res.Errors) > 0 {
		return docmirror.Errorf(docmirror.EINTERNAL,
			"%d duplicate(s) could not be removed", len(res.Errors))
	}
	return nil
}
