package handler

import (
	"fundlink/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	dealHandler         *DealHandler
	rfqHandler          *RFQHandler
	notificationHandler *NotificationHandler
	fileHandler         *FileHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	dealUseCase *usecase.DealUseCase,
	rfqUseCase *usecase.RFQUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	dealHandler = NewDealHandler(dealUseCase)
	rfqHandler = NewRFQHandler(rfqUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetAuthHandler() *AuthHandler                 { return authHandler }
func GetUserHandler() *UserHandler                 { return userHandler }
func GetDealHandler() *DealHandler                 { return dealHandler }
func GetRFQHandler() *RFQHandler                   { return rfqHandler }
func GetNotificationHandler() *NotificationHandler { return notificationHandler }
func GetFileHandler() *FileHandler                 { return fileHandler }
