package mocks

//go:generate mockery --name Source --srcpkg github.com/salesboard/salesboard/internal/source --output ./source --outpkg sourcemocks --with-expecter
//go:generate mockery --name TableProvider --srcpkg github.com/salesboard/salesboard/internal/dashboard --output ./dashboard --outpkg dashboardmocks --with-expecter
