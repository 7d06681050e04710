package service

import (
	"fmt"
	"log"
	"time"

	"github.com/SiEncan/ArenaKu/internal/entities"
)

// Sender delivers best-effort notifications. Implementations log failures and
// never surface them: a lost email must not fail a paid booking.
type Sender interface {
	SendVerificationEmail(toEmail, code string)
	SendBookingReceipt(booking entities.BookingDetail, toEmail string)
	SendBookingSMS(booking entities.BookingDetail, toPhone string)
}

type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) SendVerificationEmail(toEmail, code string) {
	subject := "Kode Verifikasi Booking ArenaKu"
	plainText := fmt.Sprintf(
		"Gunakan kode berikut untuk melanjutkan proses verifikasi:\n\n"+
			"%s\n\n"+
			"Kode ini hanya berlaku selama 10 menit. Jika Anda tidak meminta kode ini, silakan abaikan email ini.\n\n"+
			"Jika ada pertanyaan, hubungi kami di support@arenaku.com.",
		code,
	)
	htmlBody := fmt.Sprintf(
		`<div style="max-width:600px;margin:20px auto;font-family:Arial,sans-serif">
			<div style="background-color:#22c55e;padding:20px;text-align:center;color:#fff"><h1>Kode Verifikasi Anda</h1></div>
			<div style="padding:20px">
				<p>Gunakan kode berikut untuk melanjutkan proses verifikasi:</p>
				<div style="text-align:center;font-size:32px;font-weight:bold;color:#16a34a;margin:20px 0">%s</div>
				<p>Kode ini hanya berlaku selama 10 menit. Jika Anda tidak meminta kode ini, silakan abaikan email ini.</p>
			</div>
			<div style="padding:20px;text-align:center;font-size:14px;color:#666">
				<p>Email ini dikirim oleh sistem ArenaKu.</p>
			</div>
		</div>`,
		code,
	)

	go func() {
		if err := SendEmailWithSendGrid(toEmail, "", subject, plainText, htmlBody); err != nil {
			log.Printf("ALERT (async): failed to send verification email to %s: %v", toEmail, err)
		}
	}()
}

func (s *SenderService) SendBookingReceipt(booking entities.BookingDetail, toEmail string) {
	if toEmail == "" {
		log.Printf("No recipient email for booking %s receipt, skipping", booking.ID)
		return
	}

	name := booking.GuestName
	dateFormatted := booking.Date.Format("02 Jan 2006")
	subject := fmt.Sprintf("Bukti Booking ArenaKu - %s", booking.OrderID)
	plainText := fmt.Sprintf(
		"Pembayaran Anda telah kami terima.\n\n"+
			"Detail booking:\n"+
			"Order ID: %s\n"+
			"Venue: %s\n"+
			"Lapangan: %s\n"+
			"Tanggal: %s\n"+
			"Jam: %s - %s\n"+
			"Total: Rp%d\n\n"+
			"Terima kasih telah menggunakan ArenaKu.",
		booking.OrderID, booking.VenueName, booking.FieldName,
		dateFormatted, booking.StartTime, booking.EndTime, booking.TotalPrice,
	)
	htmlBody := fmt.Sprintf(
		`<div style="max-width:600px;margin:20px auto;font-family:Arial,sans-serif">
			<div style="background-color:#22c55e;padding:20px;text-align:center;color:#fff"><h1>Booking Berhasil</h1></div>
			<div style="padding:20px">
				<p>Pembayaran Anda telah kami terima.</p>
				<table style="width:100%%;font-size:15px">
					<tr><td>Order ID</td><td>%s</td></tr>
					<tr><td>Venue</td><td>%s</td></tr>
					<tr><td>Lapangan</td><td>%s</td></tr>
					<tr><td>Tanggal</td><td>%s</td></tr>
					<tr><td>Jam</td><td>%s - %s</td></tr>
					<tr><td>Total</td><td>Rp%d</td></tr>
				</table>
				<p>Terima kasih telah menggunakan ArenaKu.</p>
			</div>
		</div>`,
		booking.OrderID, booking.VenueName, booking.FieldName,
		dateFormatted, booking.StartTime, booking.EndTime, booking.TotalPrice,
	)

	go func() {
		if err := SendEmailWithSendGrid(toEmail, name, subject, plainText, htmlBody); err != nil {
			log.Printf("ALERT (async): failed to send booking receipt for %s: %v", booking.ID, err)
		}
	}()
}

func (s *SenderService) SendBookingSMS(booking entities.BookingDetail, toPhone string) {
	wibLoc, errLoc := time.LoadLocation("Asia/Jakarta")
	if errLoc != nil {
		wibLoc = time.FixedZone("WIB", 7*60*60)
	}

	message := fmt.Sprintf("ArenaKu: Booking %s berhasil dibayar!\n%s - %s, %s %s.\nDetail lengkap ada di email Anda.",
		booking.OrderID, booking.VenueName, booking.FieldName,
		booking.Date.In(wibLoc).Format("02/01"), booking.StartTime,
	)

	go func() {
		if err := SendSMS(toPhone, message); err != nil {
			log.Printf("ALERT (async): booking %s is paid but the confirmation SMS to %s failed: %v", booking.ID, toPhone, err)
		}
	}()
}
