package pages

import (
	"context"
	"fmt"

	"github.com/javeriana-conecta/conecta-web/internal/models"
)

func (p *Pages) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	u, err := p.session.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "Bienvenido, %s\n", displayName(u))
	return u, nil
}

func (p *Pages) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	u, err := p.session.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "Cuenta creada: %s\n", displayName(u))
	return u, nil
}

func (p *Pages) Logout(ctx context.Context) error {
	if err := p.session.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Sesión cerrada")
	return nil
}

func (p *Pages) Profile(ctx context.Context) (*models.User, error) {
	u, err := p.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	w := newTable(p.out)
	fmt.Fprintf(w, "ID\t%d\n", u.ID)
	fmt.Fprintf(w, "Nombre\t%s\n", u.Name)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Rol\t%s\n", u.Role)
	if u.Career != "" {
		fmt.Fprintf(w, "Carrera\t%s\n", u.Career)
	}
	if u.City != "" {
		fmt.Fprintf(w, "Ciudad\t%s\n", u.City)
	}
	_ = w.Flush()

	return u, nil
}

func displayName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
