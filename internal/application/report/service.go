package report

import (
	"context"
	"errors"
	"time"

	"github.com/internhub-api/internal/domain"
)

const recentLimit = 5

type Service interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	TimelineSeries(ctx context.Context, rng string) (*domain.TimelineSeries, error)
	Trends(ctx context.Context) (*domain.Trends, error)
}

type studentStore interface {
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]domain.Student, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type recruiterStore interface {
	Get(ctx context.Context, recruiterID string) (*domain.Recruiter, error)
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]domain.Recruiter, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type internshipStore interface {
	Count(ctx context.Context, status domain.InternshipStatus) (int, error)
	Recent(ctx context.Context, limit int) ([]domain.Internship, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type applicationStore interface {
	CountByStatus(ctx context.Context) (domain.ApplicationCounts, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type service struct {
	students     studentStore
	recruiters   recruiterStore
	internships  internshipStore
	applications applicationStore
	now          func() time.Time
}

type ServiceDeps struct {
	StudentRepo     studentStore
	RecruiterRepo   recruiterStore
	InternshipRepo  internshipStore
	ApplicationRepo applicationStore
	Now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	clock := deps.Now
	if clock == nil {
		clock = time.Now
	}
	return &service{
		students:     deps.StudentRepo,
		recruiters:   deps.RecruiterRepo,
		internships:  deps.InternshipRepo,
		applications: deps.ApplicationRepo,
		now:          clock,
	}
}

func (s *service) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		st  domain.DashboardStats
		err error
	)
	if st.TotalStudents, err = s.students.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalRecruiters, err = s.recruiters.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalInternships, err = s.internships.Count(ctx, ""); err != nil {
		return nil, err
	}
	if st.ActiveInternships, err = s.internships.Count(ctx, domain.InternshipActive); err != nil {
		return nil, err
	}
	if st.Applications, err = s.applications.CountByStatus(ctx); err != nil {
		return nil, err
	}

	students, err := s.students.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	st.RecentStudents = make([]domain.RecentStudent, 0, len(students))
	for _, x := range students {
		st.RecentStudents = append(st.RecentStudents, domain.RecentStudent{
			StudentID: x.StudentID, Name: x.Name, Email: x.Email, CreatedAt: x.CreatedAt,
		})
	}

	recruiters, err := s.recruiters.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	st.RecentRecruiters = make([]domain.RecentRecruiter, 0, len(recruiters))
	for _, x := range recruiters {
		st.RecentRecruiters = append(st.RecentRecruiters, domain.RecentRecruiter{
			RecruiterID: x.RecruiterID, Name: x.Name, Email: x.Email, CompanyName: x.CompanyName, CreatedAt: x.CreatedAt,
		})
	}

	internships, err := s.internships.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	st.RecentInternships = make([]domain.RecentInternship, 0, len(internships))
	for _, x := range internships {
		company, err := s.ownerCompany(ctx, &x)
		if err != nil {
			return nil, err
		}
		st.RecentInternships = append(st.RecentInternships, domain.RecentInternship{
			InternshipID: x.InternshipID, Title: x.Title, CompanyName: company, Status: x.Status, CreatedAt: x.CreatedAt,
		})
	}
	return &st, nil
}

// ownerCompany prefers the owning recruiter's company and falls back to the
// name stored on the posting when the recruiter is gone.
func (s *service) ownerCompany(ctx context.Context, i *domain.Internship) (string, error) {
	r, err := s.recruiters.Get(ctx, i.PostedBy)
	if errors.Is(err, domain.ErrNotFound) {
		return i.CompanyName, nil
	}
	if err != nil {
		return "", err
	}
	return r.CompanyName, nil
}

func (s *service) TimelineSeries(ctx context.Context, rng string) (*domain.TimelineSeries, error) {
	t := s.now().UTC()
	since := windowFloor(rng, t)
	series, err := s.createdSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for i := range series {
		series[i] = within(series[i], since, t)
	}
	return buildTimeline(rng, t, series[0], series[1], series[2], series[3]), nil
}

func (s *service) Trends(ctx context.Context) (*domain.Trends, error) {
	t := s.now().UTC()
	series, err := s.createdSince(ctx, t.AddDate(0, -2, 0))
	if err != nil {
		return nil, err
	}
	var out [4]string
	for i, times := range series {
		out[i] = trend(splitPeriods(t, times))
	}
	return &domain.Trends{Students: out[0], Recruiters: out[1], Internships: out[2], Applications: out[3]}, nil
}

// createdSince returns creation timestamps for students, recruiters,
// internships and applications, in that order.
func (s *service) createdSince(ctx context.Context, since time.Time) ([4][]time.Time, error) {
	var out [4][]time.Time
	fetchers := [4]func(context.Context, time.Time) ([]time.Time, error){
		s.students.CreatedSince,
		s.recruiters.CreatedSince,
		s.internships.CreatedSince,
		s.applications.CreatedSince,
	}
	for i, fetch := range fetchers {
		times, err := fetch(ctx, since)
		if err != nil {
			return out, err
		}
		out[i] = times
	}
	return out, nil
}

func within(times []time.Time, from, to time.Time) []time.Time {
	out := times[:0:0]
	for _, ts := range times {
		if !ts.Before(from) && !ts.After(to) {
			out = append(out, ts)
		}
	}
	return out
}
