// bridgectl is a command-line front end for the footoverbridge
// backend, wired through the same stores a UI would use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/config"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/logging"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/reports"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/rewards"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/session"
)

type app struct {
	session *session.Store
	reports *reports.Store
	rewards *rewards.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	tokens, err := session.NewFileTokenStore(cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.APIBaseURL, tokens, cfg.HTTPTimeout)
	sess := session.New(client, tokens)
	return &app{
		session: sess,
		reports: reports.New(client, sess),
		rewards: rewards.New(client, sess),
	}, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bridgectl <command> [flags]

commands:
  register, login, logout, whoami, profile, passwd
  report  create|list|mine|get|delete|comment|moderate|upvote
  reward  list|mine|get|redeem`)
	os.Exit(2)
}

func main() {
	logging.Setup()
	if len(os.Args) < 2 {
		usage()
	}

	a, err := newApp()
	if err != nil {
		die(err)
	}
	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "register":
		cmdErr = a.register(ctx, os.Args[2:])
	case "login":
		cmdErr = a.login(ctx, os.Args[2:])
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		cmdErr = a.whoami(ctx)
	case "profile":
		cmdErr = a.profile(ctx, os.Args[2:])
	case "passwd":
		cmdErr = a.passwd(ctx, os.Args[2:])
	case "report":
		cmdErr = a.reportCmd(ctx, os.Args[2:])
	case "reward":
		cmdErr = a.rewardCmd(ctx, os.Args[2:])
	default:
		usage()
	}
	if cmdErr != nil {
		die(cmdErr)
	}
}

func die(err error) {
	fmt.Fprintln(os.Stderr, "bridgectl:", err)
	os.Exit(1)
}

func dump(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := a.session.Register(ctx, models.RegisterInput{Name: *name, Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Println("registered as", a.session.User().Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := a.session.Login(ctx, models.LoginInput{Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Println("logged in as", a.session.User().Email)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	user := a.session.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	dump(user)
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	avatar := fs.String("avatar", "", "avatar image file")
	fs.Parse(args)

	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	in := models.ProfileInput{Name: *name, Email: *email, AvatarPath: *avatar}
	if user := a.session.User(); user != nil {
		if in.Name == "" {
			in.Name = user.Name
		}
		if in.Email == "" {
			in.Email = user.Email
		}
	}
	if err := a.session.UpdateProfile(ctx, in); err != nil {
		return err
	}
	dump(a.session.User())
	return nil
}

func (a *app) passwd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	fs.Parse(args)

	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	if err := a.session.UpdatePassword(ctx, models.PasswordInput{CurrentPassword: *current, NewPassword: *next}); err != nil {
		return err
	}
	fmt.Println("password updated")
	return nil
}

func (a *app) reportCmd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "create":
		fs := flag.NewFlagSet("report create", flag.ExitOnError)
		title := fs.String("title", "", "short summary")
		desc := fs.String("desc", "", "full description")
		issueType := fs.String("type", string(models.IssueOther), "issue type")
		condition := fs.String("condition", string(models.ConditionFair), "condition grade")
		address := fs.String("address", "", "street address")
		city := fs.String("city", "", "city")
		state := fs.String("state", "", "state")
		lat := fs.Float64("lat", 0, "latitude")
		lng := fs.Float64("lng", 0, "longitude")
		anonymous := fs.Bool("anonymous", false, "hide reporter identity")
		var images stringList
		fs.Var(&images, "image", "image file (repeatable, up to 5)")
		fs.Parse(rest)

		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		record, err := a.reports.Create(ctx, models.ReportInput{
			Title:       *title,
			Description: *desc,
			IssueType:   models.IssueType(*issueType),
			Condition:   models.Condition(*condition),
			Location: models.Location{
				Type:        "Point",
				Coordinates: [2]float64{*lng, *lat},
				Address:     *address,
				City:        *city,
				State:       *state,
			},
			IsAnonymous: *anonymous,
			ImagePaths:  images,
		})
		if err != nil {
			return err
		}
		dump(record)

	case "list":
		fs := flag.NewFlagSet("report list", flag.ExitOnError)
		page := fs.Int("page", 1, "page number")
		status := fs.String("status", "", "status filter")
		condition := fs.String("condition", "", "condition filter")
		issueType := fs.String("type", "", "issue type filter")
		fs.Parse(rest)

		patch := reports.FilterPatch{}
		if *status != "" {
			v := models.ReportStatus(*status)
			patch.Status = &v
		}
		if *condition != "" {
			v := models.Condition(*condition)
			patch.Condition = &v
		}
		if *issueType != "" {
			v := models.IssueType(*issueType)
			patch.IssueType = &v
		}
		if err := a.reports.UpdateFilters(ctx, patch); err != nil {
			return err
		}
		if *page > 1 {
			if err := a.reports.List(ctx, *page); err != nil {
				return err
			}
		}
		dump(a.reports.Reports())

	case "mine":
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		if err := a.reports.ListMine(ctx); err != nil {
			return err
		}
		dump(a.reports.MyReports())

	case "get":
		record, err := a.reports.Get(ctx, idArg(rest))
		if err != nil {
			return err
		}
		dump(record)

	case "delete":
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		if err := a.reports.Remove(ctx, idArg(rest)); err != nil {
			return err
		}
		fmt.Println("deleted")

	case "comment":
		fs := flag.NewFlagSet("report comment", flag.ExitOnError)
		id := fs.String("id", "", "report id")
		text := fs.String("text", "", "comment text")
		fs.Parse(rest)
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		return a.reports.AddPublicComment(ctx, *id, *text)

	case "moderate":
		fs := flag.NewFlagSet("report moderate", flag.ExitOnError)
		id := fs.String("id", "", "report id")
		text := fs.String("text", "", "comment text")
		status := fs.String("status", "", "new status (optional)")
		fs.Parse(rest)
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		return a.reports.AddAdminComment(ctx, *id, *text, models.ReportStatus(*status))

	case "upvote":
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		return a.reports.Upvote(ctx, idArg(rest))

	default:
		usage()
	}
	return nil
}

func (a *app) rewardCmd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := flag.NewFlagSet("reward list", flag.ExitOnError)
		page := fs.Int("page", 1, "page number")
		category := fs.String("category", "", "category filter")
		fs.Parse(rest)

		patch := rewards.FilterPatch{}
		if *category != "" {
			patch.Category = category
		}
		if err := a.rewards.UpdateFilters(ctx, patch); err != nil {
			return err
		}
		if *page > 1 {
			if err := a.rewards.List(ctx, *page); err != nil {
				return err
			}
		}
		dump(a.rewards.Rewards())

	case "mine":
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		if err := a.rewards.ListRedemptions(ctx); err != nil {
			return err
		}
		dump(a.rewards.Redemptions())

	case "get":
		record, err := a.rewards.Get(ctx, idArg(rest))
		if err != nil {
			return err
		}
		dump(record)

	case "redeem":
		if err := a.session.Bootstrap(ctx); err != nil {
			return err
		}
		id := idArg(rest)
		record, err := a.rewards.Get(ctx, id)
		if err != nil {
			return err
		}
		if !rewards.CanRedeem(a.session.User(), *record) {
			return fmt.Errorf("not enough points for %q", record.Title)
		}
		if err := a.rewards.Redeem(ctx, id); err != nil {
			return err
		}
		dump(a.rewards.Redemptions())

	default:
		usage()
	}
	return nil
}

func idArg(args []string) string {
	if len(args) < 1 {
		usage()
	}
	return args[0]
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return fmt.Sprint([]string(*l)) }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}
